package config

import (
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	colorRed         = 31
	colorGreen       = 32
	colorYellow      = 33
	colorBlue        = 36
	colorGray        = 37
	colorLightGreen  = 92
	colorLightYellow = 93
	colorCyan        = 96
)

// WardenFormatter prints colored key=value lines with fields in stable order.
type WardenFormatter struct {
	// CallerSkip is the runtime.Caller depth of the logging call site, 0 disables the source field.
	CallerSkip int
}

func (f *WardenFormatter) Format(entry *log.Entry) ([]byte, error) {
	var b strings.Builder

	b.WriteString(pair("level", levelColor(entry.Level), strings.ToUpper(entry.Level.String())[:4]))
	b.WriteString(" " + pair("ts", colorLightYellow, entry.Time.Format("2006-01-02 15:04:05.000")))

	if f.CallerSkip > 0 {
		if _, file, line, ok := runtime.Caller(f.CallerSkip); ok {
			b.WriteString(" " + pair("source", colorLightYellow, file+":"+strconv.Itoa(line)))
		}
	}

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		m, err := json.Marshal(entry.Data[k])
		if err != nil || len(m) == 0 {
			continue
		}
		s := string(m)
		valueColor := colorCyan
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			valueColor = colorGreen
		} else if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
			valueColor = colorLightYellow
		}
		b.WriteString(" " + pair(k, valueColor, s))
	}
	b.WriteString(" " + pair("msg", colorLightGreen, strconv.Quote(entry.Message)))

	output := strings.NewReplacer("\r", `\r`, "\n", `\n`).Replace(b.String())
	return []byte(output + "\n"), nil
}

func levelColor(level log.Level) int {
	switch level {
	case log.DebugLevel, log.TraceLevel:
		return colorGray
	case log.WarnLevel:
		return colorYellow
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		return colorRed
	default:
		return colorBlue
	}
}

func pair(key string, valueColor int, value string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m=\x1b[%dm%s\x1b[0m", colorCyan, key, valueColor, value)
}
