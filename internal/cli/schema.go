package cli

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/semmy-space/llmkeys/internal/output"
)

// SchemaCmd prints the command tree, or one branch of it, as JSON
type SchemaCmd struct {
	Command string `arg:"" optional:"" help:"Command path to describe, e.g. 'keys set'"`
}

type commandSchema struct {
	Name     string           `json:"name"`
	Help     string           `json:"help,omitempty"`
	Default  bool             `json:"default,omitempty"`
	Flags    []flagSchema     `json:"flags,omitempty"`
	Args     []argSchema      `json:"args,omitempty"`
	Commands []*commandSchema `json:"commands,omitempty"`
}

type flagSchema struct {
	Name    string   `json:"name"`
	Short   string   `json:"short,omitempty"`
	Help    string   `json:"help,omitempty"`
	Type    string   `json:"type"`
	Default string   `json:"default,omitempty"`
	Enum    []string `json:"enum,omitempty"`
	Env     string   `json:"env,omitempty"`
}

type argSchema struct {
	Name      string `json:"name"`
	Help      string `json:"help,omitempty"`
	Required  bool   `json:"required,omitempty"`
	Predictor string `json:"predictor,omitempty"`
}

// Run executes the schema command
func (cmd *SchemaCmd) Run(ctx *kong.Context, streams *Streams) error {
	node := ctx.Model.Node
	for _, name := range strings.Fields(cmd.Command) {
		i := slices.IndexFunc(node.Children, func(c *kong.Node) bool {
			return c.Name == name && !c.Hidden
		})
		if i < 0 {
			return output.NewCLIError(output.ExitNotFound, fmt.Sprintf("Unknown command: %s", cmd.Command)).
				WithHint("Run: llm schema")
		}
		node = node.Children[i]
	}

	enc := json.NewEncoder(streams.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(describeCommand(node))
}

func describeCommand(node *kong.Node) *commandSchema {
	c := &commandSchema{
		Name:    node.Name,
		Help:    node.Help,
		Default: node.Parent != nil && node.Parent.DefaultCmd == node,
	}

	for _, f := range node.Flags {
		if f.Name == "help" {
			continue
		}
		c.Flags = append(c.Flags, describeFlag(f))
	}

	for _, a := range node.Positional {
		arg := argSchema{Name: a.Name, Help: a.Help, Required: a.Required}
		if a.Tag != nil {
			arg.Predictor = a.Tag.Get("predictor")
		}
		c.Args = append(c.Args, arg)
	}

	for _, child := range node.Children {
		if !child.Hidden {
			c.Commands = append(c.Commands, describeCommand(child))
		}
	}
	return c
}

func describeFlag(f *kong.Flag) flagSchema {
	fs := flagSchema{
		Name:    f.Name,
		Help:    f.Help,
		Type:    "string",
		Default: f.Default,
		Env:     globalEnvVars[f.Name],
	}
	if f.Short != 0 {
		fs.Short = string(f.Short)
	}
	if f.Value != nil && f.Value.Target.IsValid() {
		t := f.Value.Target.Type()
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		fs.Type = t.String()
	}
	// An empty enum member only marks the flag as optional
	for _, v := range strings.Split(f.Enum, ",") {
		if v != "" {
			fs.Enum = append(fs.Enum, v)
		}
	}
	return fs
}
