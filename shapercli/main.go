package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/otshaper"
	"github.com/npillmayer/otshaper/otarabic"
	"github.com/npillmayer/otshaper/othebrew"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'otshaper'
func tracer() tracing.Trace {
	return tracing.Select("otshaper")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
		"trace.otshaper":  "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	flag.Parse()
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}

	// script-specific engines
	if err := othebrew.Register(); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(2)
	}
	if err := otarabic.Register(); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(2)
	}

	pterm.Info.Println("Welcome to the shaping-plan CLI")
	//
	// set up REPL
	repl, err := readline.New("shape > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{
		repl: repl,
		face: newCapFace(),
		props: otshaper.SegmentProperties{
			Script:    language.Latin,
			Direction: otshaper.LeftToRight,
		},
	}
	pterm.Info.Println("Quit with <ctrl>D")
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object. It holds the synthetic face under
// construction, the segment properties and the requested user features;
// 'plan' and 'shape' compile them into a shaping plan.
type Intp struct {
	repl     *readline.Instance
	face     *capFace
	props    otshaper.SegmentProperties
	features []otshaper.Feature
}

func (intp *Intp) String() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("( %s %s", scriptName(intp.props.Script), intp.props.Direction))
	for _, f := range intp.features {
		sb.WriteString(fmt.Sprintf(" %s=%d", f.Tag, f.Value))
	}
	sb.WriteString(" )")
	return sb.String()
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		err, quit := intp.execute(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

var commandFn = map[string]func(*Intp, []string) (error, bool){
	"quit":    quitOp,
	"help":    helpOp,
	"face":    faceOp,
	"script":  scriptOp,
	"props":   propsOp,
	"feature": featureOp,
	"plan":    planOp,
	"shape":   shapeOp,
}

func (intp *Intp) execute(line string) (error, bool) {
	args := strings.Fields(line)
	verb := strings.ToLower(args[0])
	f, ok := commandFn[verb]
	if !ok {
		help("")
		return nil, false
	}
	return f(intp, args[1:])
}

func quitOp(intp *Intp, args []string) (error, bool) {
	return nil, true
}

// faceOp toggles capabilities of the synthetic face, e.g.
//
//	face +gsub +gpos -kern
//
// Without arguments it prints the current capabilities.
func faceOp(intp *Intp, args []string) (error, bool) {
	for _, arg := range args {
		if len(arg) < 2 || (arg[0] != '+' && arg[0] != '-') {
			return fmt.Errorf("face: want +cap or -cap, have %q", arg), false
		}
		on := arg[0] == '+'
		flag, ok := intp.face.capability(strings.ToLower(arg[1:]))
		if !ok {
			return fmt.Errorf("face: unknown capability %q", arg[1:]), false
		}
		*flag = on
	}
	printFace(intp.face)
	return nil, false
}

// scriptOp adds a script tag, feature tag or required feature to one of
// the synthetic face's layout tables:
//
//	script gsub latn          script table entry
//	script gsub latn+liga     feature under the table
//	script gpos latn!kern     required feature
func scriptOp(intp *Intp, args []string) (error, bool) {
	if len(args) == 0 {
		printScripts(intp.face)
		return nil, false
	}
	if len(args) != 2 {
		return fmt.Errorf("script: want <gsub|gpos> <tag>[+feat|!feat]"), false
	}
	var table otshaper.TableType
	switch strings.ToLower(args[0]) {
	case "gsub":
		table = otshaper.TableGSUB
	case "gpos":
		table = otshaper.TableGPOS
	default:
		return fmt.Errorf("script: unknown table %q", args[0]), false
	}
	spec := args[1]
	if i := strings.IndexAny(spec, "+!"); i >= 0 {
		script, feat := spec[:i], spec[i+1:]
		if len(feat) != 4 {
			return fmt.Errorf("script: feature tag must have 4 characters: %q", feat), false
		}
		intp.face.addScript(table, otshaper.T(script))
		index := intp.face.addFeature(table, otshaper.T(feat))
		if spec[i] == '!' {
			intp.face.required[table] = index
		}
	} else {
		intp.face.addScript(table, otshaper.T(spec))
	}
	printScripts(intp.face)
	return nil, false
}

// propsOp sets the segment properties, e.g.
//
//	props script=arab dir=rtl lang=ar
func propsOp(intp *Intp, args []string) (error, bool) {
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("props: want key=value, have %q", arg), false
		}
		switch strings.ToLower(key) {
		case "script":
			script, ok := scriptByName(strings.ToLower(value))
			if !ok {
				return fmt.Errorf("props: unknown script %q", value), false
			}
			intp.props.Script = script
		case "dir":
			dir, ok := directionByName(strings.ToLower(value))
			if !ok {
				return fmt.Errorf("props: unknown direction %q", value), false
			}
			intp.props.Direction = dir
		case "lang":
			intp.props.Language = value
		default:
			return fmt.Errorf("props: unknown property %q", key), false
		}
	}
	pterm.Printf("props: script=%s dir=%s lang=%q\n",
		scriptName(intp.props.Script), intp.props.Direction, intp.props.Language)
	return nil, false
}

// featureOp adds a user feature request, e.g.
//
//	feature liga=0
//	feature smcp=1:2:5     value with cluster range [2,5)
//	feature clear
func featureOp(intp *Intp, args []string) (error, bool) {
	for _, arg := range args {
		if strings.ToLower(arg) == "clear" {
			intp.features = intp.features[:0]
			continue
		}
		feat, err := parseFeature(arg)
		if err != nil {
			return err, false
		}
		intp.features = append(intp.features, feat)
	}
	return nil, false
}

func parseFeature(arg string) (otshaper.Feature, error) {
	tag, spec, ok := strings.Cut(arg, "=")
	if !ok || len(tag) != 4 {
		return otshaper.Feature{}, fmt.Errorf("feature: want ttttt=value[:start:end], have %q", arg)
	}
	feat := otshaper.Feature{
		Tag:   otshaper.T(tag),
		Start: otshaper.FeatureGlobalStart,
		End:   otshaper.FeatureGlobalEnd,
	}
	parts := strings.Split(spec, ":")
	value, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return otshaper.Feature{}, fmt.Errorf("feature: bad value %q", parts[0])
	}
	feat.Value = uint32(value)
	if len(parts) >= 3 {
		start, err1 := strconv.Atoi(parts[1])
		end, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			return otshaper.Feature{}, fmt.Errorf("feature: bad range %q", spec)
		}
		feat.Start = start
		feat.End = end
	}
	return feat, nil
}

// planOp compiles a shaping plan for the current face and properties
// and renders the backend decisions.
func planOp(intp *Intp, args []string) (error, bool) {
	plan, err := otshaper.NewShapePlan(intp.face, intp.props, intp.features)
	if err != nil {
		return err, false
	}
	defer plan.Release()
	printPlan(plan, intp.features)
	return nil, false
}

// shapeOp runs the full pipeline over the synthetic face and dumps the
// resulting buffer, e.g.
//
//	shape affix
func shapeOp(intp *Intp, args []string) (error, bool) {
	if len(args) == 0 {
		return fmt.Errorf("shape: want text to shape"), false
	}
	text := []rune(strings.Join(args, " "))
	plan, err := otshaper.NewShapePlan(intp.face, intp.props, intp.features)
	if err != nil {
		return err, false
	}
	defer plan.Release()

	buffer := otshaper.NewBuffer()
	buffer.AddRunes(text, 0)
	buffer.Props = intp.props
	plan.Shape(intp.face, buffer, intp.features)
	printBuffer(buffer)
	return nil, false
}

var scriptNames = map[string]language.Script{
	"latn": language.Latin,
	"arab": language.Arabic,
	"hebr": language.Hebrew,
	"syrc": language.Syriac,
	"mong": language.Mongolian,
	"cyrl": language.Cyrillic,
	"grek": language.Greek,
	"hani": language.Han,
	"thai": language.Thai,
}

func scriptByName(name string) (language.Script, bool) {
	s, ok := scriptNames[name]
	return s, ok
}

func scriptName(script language.Script) string {
	for name, s := range scriptNames {
		if s == script {
			return name
		}
	}
	return fmt.Sprintf("%v", script)
}

func directionByName(name string) (otshaper.Direction, bool) {
	switch name {
	case "ltr":
		return otshaper.LeftToRight, true
	case "rtl":
		return otshaper.RightToLeft, true
	case "ttb":
		return otshaper.TopToBottom, true
	case "btt":
		return otshaper.BottomToTop, true
	}
	return otshaper.DirectionInvalid, false
}
