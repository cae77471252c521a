package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/hall-sensor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"orDefault": func(s, def string) string {
		if s == "" {
			return def
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Hall Sensor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.detected { color: green; font-weight: bold; }
.clear { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Hall Sensor</h1>

<h2>Sensor</h2>
<table>
<tr><th>Message</th><td id="message" class="{{if not .Ready}}unknown{{else if eq .Level "LOW"}}detected{{else}}clear{{end}}">{{orDefault (printf "%s" .Message) "waiting for first reading"}}</td></tr>
<tr><th>Level</th><td>{{orDefault (printf "%s" .Level) "UNKNOWN"}}</td></tr>
<tr><th>Pin</th><td>{{.Config.Backend}} {{.Config.Chip}} line {{.Config.Pin}}</td></tr>
{{if .Ready}}<tr><th>Last read</th><td>{{.LastRead.UTC.Format "2006-01-02T15:04:05.000Z"}}</td></tr>{{end}}
</table>

<h2>Counts</h2>
<table>
<tr><th>Magnet Detected!</th><td>{{.Counts.Detected}}</td></tr>
<tr><th>No Magnet.</th><td>{{.Counts.Clear}}</td></tr>
<tr><th>Changes</th><td>{{.Counts.Changes}}</td></tr>
<tr><th>Read errors</th><td>{{.ReadErrors}}</td></tr>
</table>

<h2>Output</h2>
<table>
<tr><th>Console</th><td>{{orDefault .Config.Serial "stdout"}}</td></tr>
<tr><th>Baud</th><td>{{.Config.Baud}}</td></tr>
<tr><th>MQTT</th><td>{{if .Config.Broker}}<span class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</span> ({{.Config.Broker}}){{else}}disabled{{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	return indexTmpl.Execute(w, data)
}
