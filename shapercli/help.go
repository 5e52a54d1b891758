package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, args []string) (error, bool) {
	topic := ""
	if len(args) > 0 {
		topic = args[0]
	}
	help(topic)
	return nil, false
}

func help(topic string) {
	switch strings.ToLower(topic) {
	case "face":
		pterm.Info.Println("face")
		pterm.Println(`
	face                  print the synthetic face's capabilities
	face +gsub +gpos      switch capabilities on
	face -kern            switch capabilities off

	Capabilities: gdef gsub gpos morx kerx kern machinekern crosskern trak
	`)
	case "script":
		pterm.Info.Println("script")
		pterm.Println(`
	script                print script and feature tags per layout table
	script gsub latn      add a script tag to the GSUB script list
	script gsub latn+liga add a feature under the table
	script gpos latn!kern add a required feature
	`)
	case "props":
		pterm.Info.Println("props")
		pterm.Println(`
	props script=arab dir=rtl lang=ar

	Scripts: latn arab hebr syrc mong cyrl grek hani thai
	Directions: ltr rtl ttb btt
	`)
	case "feature":
		pterm.Info.Println("feature")
		pterm.Println(`
	feature liga=0        request a feature value for the whole run
	feature smcp=1:2:5    restrict the request to clusters [2,5)
	feature clear         drop all requests
	`)
	case "plan", "shape":
		pterm.Info.Println("plan / shape")
		pterm.Println(`
	plan                  compile a shaping plan and print its decisions
	shape <text>          shape text with the current plan and dump the buffer
	`)
	default:
		pterm.Info.Println("Commands: face script props feature plan shape help quit")
		pterm.Println("	help <command> for details")
	}
}
