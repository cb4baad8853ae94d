package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/canopy/pkg/actor"
	"github.com/aretw0/canopy/pkg/adapters/yamlflow"
	"github.com/aretw0/canopy/pkg/control"
	"github.com/aretw0/canopy/pkg/registry"
)

var wrapCmd = &cobra.Command{
	Use:   "wrap <flow.yaml> <handler-path> <from> <to>",
	Short: "Move a run of sibling actors into an external flow file",
	Long: `Wraps the children from..to (inclusive, zero based) of the handler at
handler-path in the matching control actor, writes it to --out and replaces
the children with an external actor pointing at that file.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		from, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid from index: %w", err)
		}
		to, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid to index: %w", err)
		}
		return wrap(cmd.Context(), args[0], args[1], from, to, out)
	},
}

func init() {
	rootCmd.AddCommand(wrapCmd)
	wrapCmd.Flags().StringP("out", "o", "", "External flow file to write (default: <handler>-<from>-<to>.yaml)")
}

func wrap(ctx context.Context, flowPath, handlerPath string, from, to int, out string) error {
	reg := registry.NewStandard()
	absPath, err := filepath.Abs(flowPath)
	if err != nil {
		return err
	}
	loader := yamlflow.NewLoader(filepath.Dir(absPath), reg)
	ref := filepath.Base(absPath)

	root, err := loader.Load(ctx, ref)
	if err != nil {
		return err
	}

	found := actor.Locate(ctx, actor.ParsePath(handlerPath), root, true, false)
	handler, ok := found.(actor.MutableActorHandler)
	if !ok {
		return fmt.Errorf("%s is not an editable actor handler", handlerPath)
	}
	if from < 0 || to < from || to >= handler.Size() {
		return fmt.Errorf("invalid range %d..%d for %s with %d children", from, to, handlerPath, handler.Size())
	}

	var actors []actor.Actor
	for i := from; i <= to; i++ {
		actors = append(actors, handler.Get(i))
	}
	wrapper, err := control.CreateExternalActor(actors)
	if err != nil {
		return err
	}

	if out == "" {
		out = fmt.Sprintf("%s-%d-%d.yaml", strings.ToLower(found.Name()), from, to)
	}
	if err := loader.Save(out, wrapper); err != nil {
		return err
	}

	ext, err := externalFor(wrapper, strings.TrimSuffix(filepath.Base(out), filepath.Ext(out)), out)
	if err != nil {
		return err
	}
	handler.Insert(from, ext)
	return loader.Save(ref, root)
}

// externalFor returns the external actor with the same procedural aspect as wrapper.
func externalFor(wrapper actor.Actor, name, file string) (actor.Actor, error) {
	switch {
	case actor.IsStandalone(wrapper):
		return control.NewExternalStandalone(name, file), nil
	case actor.IsSource(wrapper):
		return control.NewExternalSource(name, file), nil
	case actor.IsTransformer(wrapper):
		return control.NewExternalTransformer(name, file), nil
	case actor.IsSink(wrapper):
		return control.NewExternalSink(name, file), nil
	}
	return nil, fmt.Errorf("no external actor for %s", wrapper.FullName())
}
