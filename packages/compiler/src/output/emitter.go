package output

import (
	"fmt"
	"strings"
)

const indentWith = "    "

// EmittedLine is one finished line and the depth it was written at.
type EmittedLine struct {
	Indent int
	Text   string
}

// Emitter accumulates indented lines. Each emitter owns its depth.
type Emitter struct {
	lines  []*EmittedLine
	indent int
}

// NewEmitter creates an emitter at depth zero.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Println appends a line at the current depth.
func (ctx *Emitter) Println(line string) {
	ctx.lines = append(ctx.lines, &EmittedLine{Indent: ctx.indent, Text: line})
}

// Printf appends a formatted line at the current depth.
func (ctx *Emitter) Printf(format string, args ...interface{}) {
	ctx.Println(fmt.Sprintf(format, args...))
}

// IncIndent increases the depth
func (ctx *Emitter) IncIndent() {
	ctx.indent++
}

// DecIndent decreases the depth, never below zero.
func (ctx *Emitter) DecIndent() {
	if ctx.indent > 0 {
		ctx.indent--
	}
}

// Indent returns the current depth.
func (ctx *Emitter) Indent() int {
	return ctx.indent
}

// Lines returns the number of lines written so far.
func (ctx *Emitter) Lines() int {
	return len(ctx.lines)
}

// ToSource joins the lines with newlines. Empty lines carry no indentation.
func (ctx *Emitter) ToSource() string {
	result := make([]string, 0, len(ctx.lines))
	for _, line := range ctx.lines {
		if line.Text == "" {
			result = append(result, "")
			continue
		}
		result = append(result, strings.Repeat(indentWith, line.Indent)+line.Text)
	}
	return strings.Join(result, "\n")
}
