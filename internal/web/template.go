package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/galerians-autosplitter/internal/logic"
	"github.com/sweeney/galerians-autosplitter/internal/status"
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
	"connClass": func(c logic.ConnectionState) string {
		if c == logic.ConnConnected {
			return "connected"
		}
		return "disconnected"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Galerians Autosplitter</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Galerians Autosplitter{{if .Live}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>Run</h2>
<table>
<tr><th>State</th><td id="run-state">{{.Run}}</td></tr>
<tr><th>Split type</th><td id="split-type">{{.SplitType}}</td></tr>
<tr><th>Split index</th><td id="split-index">{{.SplitIndex}}</td></tr>
<tr><th>Room</th><td id="room">{{.Location}}</td></tr>
{{if .RunID}}<tr><th>Run ID</th><td id="run-id">{{.RunID}}</td></tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>Autosplitter</th><td id="connection" class="{{connClass .Connection}}">{{.Connection}}</td></tr>
<tr><th>LiveSplit</th><td>{{.Config.LiveSplitAddr}}</td></tr>
<tr><th>Game source</th><td>{{.Config.Source}}</td></tr>
{{if .Config.Broker}}<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}} ({{.Config.Broker}})</td></tr>{{end}}
{{if .Config.NATSURL}}<tr><th>NATS</th><td class="{{if .NATSConnected}}connected{{else}}disconnected{{end}}">{{if .NATSConnected}}connected{{else}}disconnected{{end}} ({{.Config.NATSURL}})</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Splits</th><td id="count-splits">{{.Counts.Splits}}</td></tr>
<tr><th>Resets</th><td>{{.Counts.Resets}}</td></tr>
<tr><th>Runs started</th><td>{{.Counts.RunsStarted}}</td></tr>
<tr><th>Runs finished</th><td>{{.Counts.RunsFinished}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Update</th><td>{{.Config.UpdateMs}}ms</td></tr>
<tr><th>Requested split type</th><td>{{.Config.RequestedSplit}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Live}}
<script>
(function() {
  var dot = document.getElementById("live-dot");
  var fields = {
    run: document.getElementById("run-state"),
    split_type: document.getElementById("split-type"),
    split_index: document.getElementById("split-index"),
    connection: document.getElementById("connection")
  };
  var room = document.getElementById("room");

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/ws");
    ws.onopen = function() { setDot("ok", "live"); };
    ws.onclose = function() {
      setDot("err", "offline");
      setTimeout(connect, 5000);
    };
    ws.onmessage = function(ev) {
      try {
        var msg = JSON.parse(ev.data).autosplitter;
        for (var k in fields) {
          fields[k].textContent = msg[k];
        }
        fields.connection.className = msg.connection === "CONNECTED" ? "connected" : "disconnected";
        room.textContent = msg.map + "/" + msg.room;
      } catch (e) {}
    };
  }
  connect();
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, live bool) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Live   bool
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Live:     live,
	}
	indexTmpl.Execute(w, data)
}
