package outfit

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Render command output through templates and stylesheets"
	MsgRenderShort     = "Render a template with data"
	MsgValidateShort   = "Check a template for syntax errors and unknown styles"
	MsgStylesShort     = "Preview every style of the active theme"
	MsgTemplatesShort  = "List the templates outfit can find"
	MsgThemesShort     = "List the available themes"
	MsgVersionShort    = "Print version information"
	MsgTopicsShort     = "Display available documentation topics"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgTemplateValid = "%s is valid"
	MsgUnknownStyles = "Unknown styles in %s"
	MsgThemesTitle   = "Themes"
	MsgWatching      = "watching template and stylesheet directories"

	// Error messages
	MsgErrReadData     = "failed to read data file %s"
	MsgErrParseData    = "failed to parse %s data in %s"
	MsgErrDataFormat   = "unsupported data file extension %q, expected .json, .yaml, .yml or .toml"
	MsgErrUnknownStyle = "%s uses %d unknown style(s)"

	// Flag descriptions
	MsgFlagVerbose        = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig         = "Config file (YAML or TOML)"
	MsgFlagTheme          = "Theme to render with"
	MsgFlagTemplatesDir   = "Directory to load templates from (repeatable)"
	MsgFlagStylesheetsDir = "Directory to load stylesheets from (repeatable)"
	MsgFlagStrict         = "Fail renders that use unknown style names"
	MsgFlagData           = "Data file (.json, .yaml, .yml or .toml), - for YAML or JSON on stdin"
	MsgFlagInline         = "Treat the argument as template text instead of a name"
	MsgFlagWatch          = "Render again when templates or stylesheets are added or removed"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/render-long.txt
	msgRenderLongRaw string
	MsgRenderLong    = strings.TrimSpace(msgRenderLongRaw)

	//go:embed msgs/render-example.txt
	msgRenderExampleRaw string
	MsgRenderExample    = strings.TrimRight(msgRenderExampleRaw, "\n")

	//go:embed msgs/validate-long.txt
	msgValidateLongRaw string
	MsgValidateLong    = strings.TrimSpace(msgValidateLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
