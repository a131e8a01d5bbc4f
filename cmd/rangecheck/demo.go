package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"orthotree"
)

var demoPoints = []orthotree.Point{
	{0, 0}, {20, 10}, {20, 70}, {60, 10}, {60, 40},
	{70, 80}, {75, 90}, {80, 85}, {80, 80}, {80, 83},
}

func demoCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	cmd := app.Command("demo", "query a small fixed point set with both structures")
	eps := cmd.Flag("epsilon", "kd-tree comparison tolerance").Default("1e-12").Float64()

	return cmd, func(out io.Writer) int {
		if err := runDemo(out, *eps); err != nil {
			logrus.WithError(err).Error("demo failed")
			return 2
		}
		return 0
	}
}

func runDemo(out io.Writer, eps float64) error {
	ll, ur := orthotree.Point{20, 10}, orthotree.Point{90, 80}

	kd, err := orthotree.BuildKDTree(demoPoints, 2, eps)
	if err != nil {
		return err
	}
	fromKD, err := kd.Query(ll, ur)
	if err != nil {
		return err
	}
	qt, err := orthotree.BuildQuadtree(demoPoints)
	if err != nil {
		return err
	}
	fromQuad, err := qt.Query(ll, ur)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "points:   %v\n", orthotree.NewPointSet(demoPoints...))
	fmt.Fprintf(out, "query:    %v to %v\n", ll, ur)
	fmt.Fprintf(out, "kd-tree:  %v\n", fromKD)
	fmt.Fprintf(out, "quadtree: %v\n", fromQuad)
	return nil
}
