// Package raster draws frames as images, SVG, GIF animations and terminal
// text. Every surface is SideLength x SideLength cells of UnitSize pixels;
// cells outside the surface are clipped.
package raster
