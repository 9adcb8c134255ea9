package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/keenan/cuff-monitor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"mmhg": func(v float64) string {
		if v < 0 {
			return "unreliable"
		}
		return fmt.Sprintf("%.1f mmHg", v)
	},
	"bpm": func(v float64) string {
		if v < 0 {
			return "unreliable"
		}
		return fmt.Sprintf("%.1f bpm", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Cuff Monitor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.ok { color: green; font-weight: bold; }
.idle { color: #888; }
.warn { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Cuff Monitor</h1>

<h2>Session</h2>
<table>
<tr><th>State</th><td class="{{if eq .State "RECORDING"}}ok{{else}}idle{{end}}">{{.State}}</td></tr>
<tr><th>Cuff pressure</th><td>{{printf "%.1f" .Pressure}} mmHg</td></tr>
<tr><th>Capture</th><td>{{if .CaptureActive}}active{{else}}waiting for button{{end}}</td></tr>
<tr><th>Release rate</th><td class="{{if .RateWarning}}warn{{end}}">{{printf "%.1f" .ReleaseRate}} mmHg/interval{{if .RateWarning}} — TOO FAST{{end}}</td></tr>
<tr><th>Envelope points</th><td>{{.EnvelopeSize}}</td></tr>
<tr><th>Pulse peaks</th><td>{{.PeakCount}}</td></tr>
</table>

{{if .Results}}
<h2>Results</h2>
<table>
<tr><th>Systolic</th><td>{{mmhg .Results.BP.Systolic}}</td></tr>
<tr><th>Diastolic</th><td>{{mmhg .Results.BP.Diastolic}}</td></tr>
<tr><th>MAP</th><td>{{mmhg .Results.MAP}}</td></tr>
<tr><th>Pulse</th><td>{{bpm .Results.Pulse.Rate}} ({{.Results.Pulse.SampleCount}} intervals)</td></tr>
{{if .Results.Saturated}}<tr><th>Buffers</th><td class="warn">saturated</td></tr>{{end}}
</table>
{{end}}

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Config.StreamURL}}<tr><th>Waveform</th><td>{{.Config.StreamURL}}</td></tr>{{end}}
</table>

<h2>Daemon</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Sample interval</th><td>{{.Config.SampleMs}} ms</td></tr>
<tr><th>Monitor interval</th><td>{{.Config.MonitorMs}} ms</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Printf("render status page: %v", err)
	}
}
