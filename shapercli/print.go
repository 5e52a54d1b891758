package main

import (
	"fmt"

	"github.com/npillmayer/otshaper"
	"github.com/pterm/pterm"
)

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "-"
}

func printFace(face *capFace) {
	data := [][]string{
		{"Capability", "State"},
		{"gdef (glyph classes)", onOff(face.glyphClasses)},
		{"gsub", onOff(face.otSub)},
		{"gpos", onOff(face.otPos)},
		{"morx", onOff(face.aatSub)},
		{"kerx", onOff(face.aatPos)},
		{"kern", onOff(face.kernTable)},
		{"machinekern", onOff(face.machineKern)},
		{"crosskern", onOff(face.crossKern)},
		{"trak", onOff(face.tracking)},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printScripts(face *capFace) {
	data := [][]string{
		{"Table", "Scripts", "Features"},
	}
	for _, table := range []otshaper.TableType{otshaper.TableGSUB, otshaper.TableGPOS} {
		scripts := ""
		for i, tag := range face.scripts[table] {
			if i > 0 {
				scripts += " "
			}
			scripts += tag.String()
		}
		feats := ""
		for i, feat := range face.features[table] {
			if i > 0 {
				feats += " "
			}
			feats += feat.tag.String()
			if face.required[table] == i {
				feats += "!"
			}
		}
		data = append(data, []string{table.String(), scripts, feats})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printPlan(plan *otshaper.ShapePlan, features []otshaper.Feature) {
	pterm.Printf("engine: %s\n", plan.Engine().Name())
	pterm.Printf("chosen scripts: GSUB=%s GPOS=%s\n",
		plan.ChosenScript(otshaper.TableGSUB),
		plan.ChosenScript(otshaper.TableGPOS))

	data := [][]string{
		{"Backend", "Applied"},
		{"GPOS", onOff(plan.AppliesGpos())},
		{"morx", onOff(plan.AppliesMorx())},
		{"kerx", onOff(plan.AppliesKerx())},
		{"kern", onOff(plan.AppliesKern())},
		{"trak", onOff(plan.AppliesTracking())},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	printMasks(plan, features)

	if aat := plan.AATFeatures(); len(aat) > 0 {
		data = [][]string{{"AAT Feature", "Value"}}
		for _, f := range aat {
			data = append(data, []string{f.Tag.String(), fmt.Sprintf("%d", f.Value)})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
}

// Feature tags the planner commonly requests; shown alongside the
// user's own requests so mask assignment is visible at a glance.
var reportedFeatures = [...]string{
	"ccmp", "locl", "liga", "clig", "calt", "kern", "mark", "mkmk",
	"rlig", "frac", "numr", "dnom", "rtlm", "vert", "trak",
}

func printMasks(plan *otshaper.ShapePlan, features []otshaper.Feature) {
	seen := map[otshaper.Tag]bool{}
	data := [][]string{{"Feature", "Mask"}}
	appendMask := func(tag otshaper.Tag) {
		if seen[tag] {
			return
		}
		seen[tag] = true
		if mask := plan.FeatureMask1(tag); mask != 0 {
			data = append(data, []string{tag.String(), fmt.Sprintf("%#010x", uint32(mask))})
		}
	}
	for _, f := range features {
		appendMask(f.Tag)
	}
	for _, name := range reportedFeatures {
		appendMask(otshaper.T(name))
	}
	if len(data) > 1 {
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	}
}

func printBuffer(buffer *otshaper.Buffer) {
	data := [][]string{
		{"#", "Codepoint", "Glyph", "Cluster", "Mask", "XAdv", "YAdv", "XOff", "YOff"},
	}
	for i := range buffer.Info {
		info, pos := &buffer.Info[i], &buffer.Pos[i]
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("U+%04X", info.Codepoint),
			fmt.Sprintf("%d", info.Glyph),
			fmt.Sprintf("%d", info.Cluster),
			fmt.Sprintf("%#010x", uint32(info.Mask)),
			fmt.Sprintf("%d", pos.XAdvance),
			fmt.Sprintf("%d", pos.YAdvance),
			fmt.Sprintf("%d", pos.XOffset),
			fmt.Sprintf("%d", pos.YOffset),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
