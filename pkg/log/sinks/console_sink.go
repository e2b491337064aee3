package sinks

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/upshift-dev/upshift/pkg/log"
	"github.com/upshift-dev/upshift/pkg/types"
)

type ConsoleSink struct{}

func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{}
}

func (c *ConsoleSink) Write(event *log.LogEvent) error {
	stepID := getStringField(event.Fields, "step_id")
	msg := event.Message
	source := getStringField(event.Fields, "source")
	cmdLine := getStringField(event.Fields, "cmd_line")
	errorMsg := getStringField(event.Fields, "error")
	levelStr := strings.ToUpper(levelToString(event.Level))
	timestampStr := event.Timestamp.Format(time.RFC3339)

	levelColorMap := map[types.Level]*color.Color{
		types.DebugLevel: color.New(color.FgCyan),
		types.InfoLevel:  color.New(color.FgGreen),
		types.WarnLevel:  color.New(color.FgYellow),
		types.ErrorLevel: color.New(color.FgRed),
		types.FatalLevel: color.New(color.FgRed, color.Bold),
	}

	levelFmt := color.New(color.FgWhite).SprintFunc()
	if lc, ok := levelColorMap[event.Level]; ok {
		levelFmt = lc.SprintFunc()
	}

	timestampFmt := color.New(color.FgWhite).SprintFunc()
	stepLabel := stepID
	if stepLabel == "" {
		stepLabel = "workflow"
	}

	var output string
	commonPrefix := fmt.Sprintf("[%s %s] %s: ",
		levelFmt(levelStr),
		timestampFmt(timestampStr),
		color.CyanString(stepLabel),
	)

	switch {
	case cmdLine != "" && source != "":
		output = fmt.Sprintf("%s[%s]: %s", commonPrefix, color.BlueString(source), cmdLine)
	case errorMsg != "":
		output = fmt.Sprintf("%s%s", commonPrefix, errorMsg)
	case msg != "":
		output = fmt.Sprintf("%s%s", commonPrefix, msg)
	default:
		fieldsStr, _ := json.MarshalIndent(event.Fields, "", "  ")
		output = fmt.Sprintf("%s%s %s", commonPrefix, msg, string(fieldsStr))
	}
	fmt.Println(output)
	return nil
}

// Helper to safely get string field from LogEvent.Fields
func getStringField(fields map[string]any, key string) string {
	if val, ok := fields[key]; ok {
		if strVal, isStr := val.(string); isStr {
			return strVal
		}
	}
	return ""
}

// Helper to convert types.Level to string
func levelToString(l types.Level) string {
	switch l {
	case types.DebugLevel:
		return "debug"
	case types.InfoLevel:
		return "info"
	case types.WarnLevel:
		return "warn"
	case types.ErrorLevel:
		return "error"
	case types.FatalLevel:
		return "fatal"
	default:
		return "unknown"
	}
}

func (c *ConsoleSink) Close() error {
	return nil // Console doesn't need closing
}
