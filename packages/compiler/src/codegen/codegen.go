// Package codegen orchestrates reconstruction and emission of a whole
// program: one callable per target, one callable per reconstructed unit and a
// start dispatcher per target.
package codegen

import (
	"fmt"

	"go.uber.org/zap"

	"sb3c-go/packages/compiler/src/config"
	"sb3c-go/packages/compiler/src/graph"
	"sb3c-go/packages/compiler/src/ir"
	"sb3c-go/packages/compiler/src/logging"
	"sb3c-go/packages/compiler/src/naming"
	"sb3c-go/packages/compiler/src/output"
	"sb3c-go/packages/compiler/src/unravel"
)

// Generator turns programs into JavaScript source.
type Generator struct {
	config *config.CompilerConfig
	logger *zap.Logger
}

// NewGenerator creates a generator. A nil config selects the defaults and a
// nil logger discards logs.
func NewGenerator(cfg *config.CompilerConfig, logger *zap.Logger) *Generator {
	if cfg == nil {
		cfg = config.NewCompilerConfig()
	}
	return &Generator{config: cfg, logger: logging.OrNop(logger)}
}

// Emit generates the source for every target in program order. Any rendering
// failure aborts the whole call and no text is returned.
func (g *Generator) Emit(program *graph.Program) (string, error) {
	ctx := output.NewEmitter()
	var names *naming.Registry
	if g.config.Names.Scope == config.ScopeProgram {
		names = naming.NewRegistry(g.config.Names.Prefix)
	}

	for i, target := range program.Targets {
		if i > 0 {
			ctx.Println("")
		}
		targetNames := names
		if targetNames == nil {
			targetNames = naming.NewRegistry(g.config.Names.Prefix)
		}
		if err := g.emitTarget(i, target, targetNames, ctx); err != nil {
			return "", fmt.Errorf("target %q: %w", target.Name, err)
		}
	}

	g.logger.Info("generated program",
		zap.Int("targets", len(program.Targets)),
		zap.Int("lines", ctx.Lines()))
	return ctx.ToSource() + "\n", nil
}

func (g *Generator) emitTarget(index int, target *graph.Target, names *naming.Registry, ctx *output.Emitter) error {
	renderer := output.NewJsEmitter(names)

	ctx.Printf("function %s() {", names.Resolve(fmt.Sprintf("target:%d:%s", index, target.Name), target.Name))
	ctx.IncIndent()

	for _, v := range target.Variables {
		ctx.Printf("let %s = %s;", names.Resolve(v.ID, v.Name), output.EscapeLiteral(v.Value))
	}
	for _, l := range target.Lists {
		ctx.Printf("let %s = %s;", names.Resolve(l.ID, l.Name), output.EscapeLiteral(l.Items))
	}

	// Sections after the declarations are separated by blank lines.
	separate := len(target.Variables)+len(target.Lists) > 0
	section := func() {
		if separate {
			ctx.Println("")
		}
		separate = true
	}

	units := unravel.Unravel(target.Blocks)
	g.logger.Debug("reconstructed target",
		zap.String("target", target.Name),
		zap.Int("nodes", target.Blocks.Len()),
		zap.Int("units", len(units)))

	for _, unit := range units {
		section()
		ctx.Printf("function %s() {", names.Resolve(unit.ID, unit.ID))
		ctx.IncIndent()
		if err := renderer.VisitAllInstructions(unit.Instructions, ctx); err != nil {
			return fmt.Errorf("unit %q: %w", unit.ID, err)
		}
		ctx.DecIndent()
		ctx.Println("}")
		g.logger.Debug("rendered unit",
			zap.String("target", target.Name),
			zap.String("unit", unit.ID),
			zap.Int("nodes", len(unit.Nodes)))
	}

	dispatcher := names.Resolve(fmt.Sprintf("dispatcher:%d:%s", index, target.Name), g.config.DispatcherName)
	section()
	ctx.Printf("function %s() {", dispatcher)
	ctx.IncIndent()
	for _, unit := range StartedUnits(target.Blocks, units) {
		ctx.Printf("%s();", names.Resolve(unit.ID, unit.ID))
	}
	ctx.DecIndent()
	ctx.Println("}")
	ctx.Println("")
	ctx.Printf("return %s;", dispatcher)

	ctx.DecIndent()
	ctx.Println("}")
	return nil
}

// StartedUnits returns, for every start-trigger node of g in enumeration order,
// the unit that consumed it. Trigger nodes outside every unit are skipped.
func StartedUnits(g *graph.Graph, units []*ir.Unit) []*ir.Unit {
	owner := make(map[string]*ir.Unit)
	for _, unit := range units {
		for _, id := range unit.Nodes {
			owner[id] = unit
		}
	}

	var out []*ir.Unit
	for _, id := range g.IDs() {
		node, _ := g.Get(id)
		if node.Opcode != output.OpcodeWhenFlag {
			continue
		}
		if unit, ok := owner[id]; ok {
			out = append(out, unit)
		}
	}
	return out
}
