package outfit

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/outfit/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// loadData reads template data from path. An empty path means no data;
// "-" reads YAML (or JSON, which YAML accepts) from stdin.
func loadData(path string, stdin io.Reader) (interface{}, error) {
	if path == "" {
		return nil, nil
	}

	var (
		raw    []byte
		err    error
		format string
	)
	if path == "-" {
		raw, err = io.ReadAll(stdin)
		format = ".yaml"
	} else {
		raw, err = os.ReadFile(path)
		format = strings.ToLower(filepath.Ext(path))
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, MsgErrReadData, path).WithDetail("path", path)
	}

	var data interface{}
	switch format {
	case ".json":
		err = json.Unmarshal(raw, &data)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &data)
	case ".toml":
		var table map[string]interface{}
		err = toml.Unmarshal(raw, &table)
		data = table
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, MsgErrDataFormat, format).WithDetail("path", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, MsgErrParseData, strings.TrimPrefix(format, "."), path).
			WithDetail("path", path)
	}
	return data, nil
}
