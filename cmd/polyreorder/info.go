package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taigrr/polyreorder/pkg/models"
	"github.com/taigrr/polyreorder/pkg/polymesh"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <mesh.obj|mesh.glb|mesh.stl|mesh.yaml>",
		Short: "Display mesh information",
		Long:  "Display topology and attribute counts of a mesh file: vertices, faces, face-corners, edges, hard edges, locked normals and UV sets.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.OutOrStdout(), args[0])
		},
	}
}

func runInfo(w io.Writer, meshPath string) error {
	info, err := os.Stat(meshPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	format, err := models.FormatOf(meshPath)
	if err != nil {
		return err
	}
	mesh, err := models.Load(meshPath)
	if err != nil {
		return fmt.Errorf("load mesh: %w", err)
	}

	lo, hi := mesh.Bounds()
	size := hi.Sub(lo)

	fmt.Fprintf(w, "File:       %s\n", filepath.Base(meshPath))
	fmt.Fprintf(w, "Format:     %s\n", strings.ToUpper(string(format)))
	fmt.Fprintf(w, "Size:       %.2f KB\n", float64(info.Size())/1024)
	if mesh.Name != "" {
		fmt.Fprintf(w, "Name:       %s\n", mesh.Name)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Vertices:   %d\n", mesh.NumVertices())
	fmt.Fprintf(w, "Faces:      %d\n", mesh.NumPolygons())
	fmt.Fprintf(w, "Corners:    %d\n", mesh.NumFaceVertices())
	fmt.Fprintf(w, "Edges:      %d (%d hard)\n", mesh.NumEdges(), mesh.HardEdgeCount())
	fmt.Fprintf(w, "Normals:    %d (%d locked corners)\n", mesh.NumNormals(), mesh.LockedCornerCount())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Bounds Min: (%.3f, %.3f, %.3f)\n", lo.X, lo.Y, lo.Z)
	fmt.Fprintf(w, "Bounds Max: (%.3f, %.3f, %.3f)\n", hi.X, hi.Y, hi.Z)
	fmt.Fprintf(w, "Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)

	return writeUVSets(w, mesh)
}

func writeUVSets(w io.Writer, mesh *polymesh.Mesh) error {
	fmt.Fprintln(w)
	for _, name := range mesh.UVSetNames() {
		counts, _, err := mesh.AssignedUVs(name)
		if err != nil {
			return err
		}
		mapped := 0
		for _, n := range counts {
			if n > 0 {
				mapped++
			}
		}
		fmt.Fprintf(w, "UV set:     %s (%d uvs, %d/%d faces mapped)\n", name, mesh.NumUVs(name), mapped, len(counts))
	}
	return nil
}
