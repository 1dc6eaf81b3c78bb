// meshcheck is a CLI utility for inspecting OBJ/MTL model files the way the
// viewer will see them, without opening a window.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/Faultbox/meshmark/internal/engine/geometry"
	"github.com/Faultbox/meshmark/internal/viewer/material"
	"github.com/Faultbox/meshmark/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "materials", "mats":
		cmdMaterials(args)
	case "dims":
		cmdDims(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshcheck - model bundle inspector

Usage:
  meshcheck <command> [options]

Commands:
  info <model.obj>                       Show geometry statistics
  materials <model.mtl> [texture-dir]    Show material-to-texture resolution
  dims <model.obj> <height-meters>       Show the real-dimension readout

Examples:
  meshcheck info robot.obj
  meshcheck materials robot.mtl ./textures
  meshcheck dims robot.obj 1.82`)
}

func cmdInfo(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshcheck info <model.obj>")
		os.Exit(2)
	}
	obj := parseOBJFile(args[0])

	size := obj.Bounds.Size()
	fmt.Printf("Vertices:  %d\n", len(obj.Vertices))
	fmt.Printf("Triangles: %d\n", len(obj.Indices)/3)
	fmt.Printf("Groups:    %d\n", len(obj.Groups))
	fmt.Printf("Bounds:    %.3f x %.3f x %.3f\n", size[0], size[1], size[2])
	for _, lib := range obj.MTLLibs {
		fmt.Printf("MTL lib:   %s\n", lib)
	}

	norm := geometry.ComputeNormalization(obj.Bounds)
	fmt.Printf("Normalize: scale %.4f, offset (%.3f, %.3f, %.3f)\n",
		norm.Scale, norm.Offset.X, norm.Offset.Y, norm.Offset.Z)

	for _, g := range obj.Groups {
		name := g.Material
		if name == "" {
			name = "(default)"
		}
		fmt.Printf("  group %-24s %d triangles\n", name, g.Count/3)
	}
}

func cmdMaterials(args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshcheck materials <model.mtl> [texture-dir]")
		os.Exit(2)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fatal(err)
	}
	mats := formats.ParseMTL(string(data))

	textures := map[string][]byte{}
	if len(args) == 2 {
		entries, err := os.ReadDir(args[1])
		if err != nil {
			fatal(err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				textures[filepath.Base(e.Name())] = nil
			}
		}
	}

	resolved := material.ResolveAll(mats, textures)
	names := make([]string, 0, len(resolved))
	for name := range resolved {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r := resolved[name]
		if r.Textured() {
			fmt.Printf("%-24s -> %-32s (%s)\n", name, r.TextureName, r.Tier)
		} else {
			fmt.Printf("%-24s -> flat color (%.2f, %.2f, %.2f)\n", name, r.Color.R, r.Color.G, r.Color.B)
		}
	}
}

func cmdDims(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: meshcheck dims <model.obj> <height-meters>")
		os.Exit(2)
	}
	obj := parseOBJFile(args[0])
	height, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fatal(fmt.Errorf("height: %w", err))
	}

	dims, ok := geometry.ComputeRealDimensions(obj.Bounds, height)
	if !ok {
		fmt.Println("No dimension readout (height absent or model degenerate)")
		return
	}
	fmt.Println(dims.String())
}

func parseOBJFile(path string) *formats.OBJModel {
	data, err := os.ReadFile(path)
	if err != nil {
		fatal(err)
	}
	obj, err := formats.ParseOBJ(string(data))
	if err != nil {
		fatal(err)
	}
	return obj
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
