/*
 * profile.go, part of godfi.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

// Package dfiplot draws per-residue DFI profiles.
package dfiplot

import (
	"fmt"
	"image/color"

	dfi "github.com/rmera/godfi"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	lineColor       = color.RGBA{R: 40, G: 60, B: 160, A: 255}
	functionalColor = color.RGBA{R: 220, A: 255}
	hingeColor      = color.RGBA{G: 150, A: 255}
)

// Profile plots the score column (any of dfi.ColumnNames) of r against
// the residue position. Functional residues and hinges, if any, are
// marked.
func Profile(r *dfi.Result, column, title string) (*plot.Plot, error) {
	y, err := r.Column(column)
	if err != nil {
		return nil, fmt.Errorf("Profile: %w", err)
	}
	pts := make(plotter.XYs, len(y))
	for i, v := range y {
		pts[i].X = float64(i + 1)
		pts[i].Y = v
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Residue"
	p.Y.Label.Text = column
	p.X.Min = 1
	p.X.Max = float64(len(y))
	p.Add(plotter.NewGrid())
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	l.LineStyle.Width = vg.Points(1)
	l.LineStyle.Color = lineColor
	p.Add(l)
	if err := mark(p, pts, r.Functional, functionalColor, draw.CircleGlyph{}, "functional"); err != nil {
		return nil, err
	}
	if err := mark(p, pts, r.Hinges, hingeColor, draw.TriangleGlyph{}, "hinge"); err != nil {
		return nil, err
	}
	return p, nil
}

// mark adds a scatter with the points of pts given by idx.
func mark(p *plot.Plot, pts plotter.XYs, idx []int, c color.Color, shape draw.GlyphDrawer, name string) error {
	if len(idx) == 0 {
		return nil
	}
	sel := make(plotter.XYs, 0, len(idx))
	for _, v := range idx {
		if v < 0 || v >= len(pts) {
			return fmt.Errorf("mark: index %d out of range for %d residues", v, len(pts))
		}
		sel = append(sel, pts[v])
	}
	s, err := plotter.NewScatter(sel)
	if err != nil {
		return err
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Shape = shape
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(s)
	p.Legend.Add(name, s)
	return nil
}

// SaveProfile plots the column of r with Profile and saves it to filename.
// The format is taken from the extension (png, svg, pdf...).
func SaveProfile(r *dfi.Result, column, title, filename string) error {
	p, err := Profile(r, column, title)
	if err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, filename)
}
