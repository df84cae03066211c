// Package topics provides a pluggable, topic-based help system for Cobra CLI applications.
// It extends the default Cobra help functionality to support arbitrary help topics
// loaded from a directory or an embedded file system, making CLIs self-documenting.
//
// Topics are found with the same loader the template registry uses: a topic's
// name is its path relative to the root with the extension stripped.
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/outfit/pkg/logging"
	"github.com/arthur-debert/outfit/pkg/registry"
	"github.com/spf13/cobra"
)

// DefaultExtensions are the topic file extensions, in priority order.
var DefaultExtensions = []string{".txt", ".md"}

// optionPrefix marks topics documenting a flag: option-dry-run.txt answers
// "help --dry-run".
const optionPrefix = "option-"

// TopicManager manages help topics for a Cobra application
type TopicManager struct {
	root         registry.Root
	topics       map[string]*Topic
	originalHelp func(*cobra.Command, []string)
	loader       registry.Loader
	renderer     Renderer
}

// Topic represents a help topic
type Topic struct {
	Name     string
	FilePath string
	Format   string
	Content  string
}

// Options configures the TopicManager
type Options struct {
	// Extensions is the list of file extensions to consider as topics
	// Defaults to DefaultExtensions if not specified
	Extensions []string

	// Exclude holds doublestar patterns for files that are not topics.
	Exclude []string

	// Renderer for formatting topic content (optional)
	// Defaults to PlainRenderer if not specified
	Renderer Renderer
}

// New creates a new TopicManager reading topicsDir with default extensions
func New(topicsDir string) *TopicManager {
	return NewWithOptions(registry.DirRoot(topicsDir), Options{})
}

// NewWithOptions creates a new TopicManager over root with custom options
func NewWithOptions(root registry.Root, opts Options) *TopicManager {
	tm := &TopicManager{
		root:     root,
		topics:   make(map[string]*Topic),
		loader:   registry.Loader{Extensions: opts.Extensions, Exclude: opts.Exclude},
		renderer: opts.Renderer,
	}

	if len(tm.loader.Extensions) == 0 {
		tm.loader.Extensions = DefaultExtensions
	}
	if tm.renderer == nil {
		tm.renderer = &PlainRenderer{}
	}
	return tm
}

// scanTopics loads every topic under the root. A missing root is not an
// error, there are just no topics.
func (tm *TopicManager) scanTopics() error {
	if tm.root.FS == nil {
		return nil
	}
	if _, err := fs.Stat(tm.root.FS, "."); err != nil {
		return nil
	}

	index, err := tm.loader.Scan(tm.root)
	if err != nil {
		return err
	}
	for _, name := range index.BaseNames() {
		entry := index[name]
		content, err := entry.Read()
		if err != nil {
			return err
		}
		tm.topics[name] = &Topic{
			Name:     name,
			FilePath: entry.Path(),
			Format:   entry.Ext,
			Content:  string(content),
		}
	}

	logger := logging.GetLogger("cobrax.topics")
	logger.Debug().
		Str("root", tm.root.Label).
		Int("topics", len(tm.topics)).
		Msg("scanned help topics")
	return nil
}

// GetTopic retrieves a topic by name. Flag-style names (--dry-run) also
// match option-prefixed topics, and a name matching the last path segment
// of exactly one nested topic finds it.
func (tm *TopicManager) GetTopic(name string) (*Topic, bool) {
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")

	if topic, exists := tm.topics[name]; exists {
		return topic, true
	}
	if topic, exists := tm.topics[optionPrefix+name]; exists {
		return topic, true
	}

	var match *Topic
	for topicName, topic := range tm.topics {
		if path.Base(topicName) != name {
			continue
		}
		if match != nil {
			return nil, false
		}
		match = topic
	}
	return match, match != nil
}

// ListTopics returns all available topic names, sorted
func (tm *TopicManager) ListTopics() []string {
	topics := make([]string, 0, len(tm.topics))
	for name := range tm.topics {
		topics = append(topics, name)
	}
	sort.Strings(topics)
	return topics
}

// RenderTopic returns the topic's content formatted by the renderer.
func (tm *TopicManager) RenderTopic(topic *Topic) string {
	return tm.renderer.Render(topic.Content, topic.Format)
}

// writeTopicList prints general and option topics under separate headings.
func (tm *TopicManager) writeTopicList(w io.Writer, appName string) {
	topics := tm.ListTopics()
	if len(topics) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var options, general []string
	for _, name := range topics {
		if strings.HasPrefix(name, optionPrefix) {
			options = append(options, strings.TrimPrefix(name, optionPrefix))
		} else {
			general = append(general, name)
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(w, "  --%s\n", name)
		}
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", appName)
}

// Initialize sets up the topic-based help system with default extensions
func Initialize(rootCmd *cobra.Command, topicsDir string) (*TopicManager, error) {
	return InitializeWithOptions(rootCmd, registry.DirRoot(topicsDir), Options{})
}

// InitializeWithOptions sets up the topic-based help system with custom options
func InitializeWithOptions(rootCmd *cobra.Command, root registry.Root, opts Options) (*TopicManager, error) {
	tm := NewWithOptions(root, opts)
	if err := tm.scanTopics(); err != nil {
		return nil, fmt.Errorf("failed to scan topics: %w", err)
	}

	tm.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + rootCmd.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, tm.ListTopics()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				tm.originalHelp(rootCmd, []string{})
				return
			}

			if args[0] == "topics" {
				tm.writeTopicList(cmd.OutOrStdout(), rootCmd.Name())
				return
			}

			// Commands win over topics of the same name
			if target, _, err := rootCmd.Find(args); err == nil && target != rootCmd {
				tm.originalHelp(target, args)
				return
			}

			if topic, exists := tm.GetTopic(args[0]); exists {
				fmt.Fprint(cmd.OutOrStdout(), tm.RenderTopic(topic))
				return
			}

			tm.originalHelp(rootCmd, args)
		},
	}

	// Remove any existing help command
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)
	// Keeps cobra from adding its default help command next to ours
	rootCmd.SetHelpCommand(helpCmd)

	// Also override the help function for --help flag
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, exists := tm.GetTopic(args[0]); exists {
				fmt.Fprint(cmd.OutOrStdout(), tm.RenderTopic(topic))
				return
			}
		}
		tm.originalHelp(cmd, args)
	})

	return tm, nil
}

// Command returns a command printing the topic list, for CLIs that want
// "topics" as a top-level command.
func (tm *TopicManager) Command(appName string) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "Display available documentation topics",
		Long:  "Display a list of all available help topics that provide additional documentation beyond command help.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			tm.writeTopicList(cmd.OutOrStdout(), appName)
		},
	}
}
