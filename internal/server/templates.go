package server

// pagesTemplate holds every dashboard page. Each page is a named template
// wrapped by "header" and "footer".
const pagesTemplate = `
{{define "header"}}<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - PiCar-X Dashboard</title>
    <script src="{{.ChartJS}}"></script>
    <style>
        :root {
            --bg: #0f172a;
            --card: #1e293b;
            --border: #334155;
            --text: #f1f5f9;
            --muted: #94a3b8;
            --accent: #3b82f6;
            --ok: #22c55e;
            --err: #ef4444;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: var(--bg); color: var(--text); line-height: 1.6; }
        nav { display: flex; flex-wrap: wrap; gap: 16px; padding: 16px 32px; background: var(--card); border-bottom: 1px solid var(--border); }
        nav a { color: var(--muted); text-decoration: none; }
        nav a:hover { color: var(--text); }
        main { max-width: 1100px; margin: 0 auto; padding: 32px; }
        h1 { margin-bottom: 16px; }
        .card { background: var(--card); border: 1px solid var(--border); border-radius: 12px; padding: 24px; margin-bottom: 24px; }
        .muted { color: var(--muted); }
        .msg-ok { color: var(--ok); margin-bottom: 16px; }
        .msg-err { color: var(--err); margin-bottom: 16px; }
        button { background: var(--accent); color: #fff; border: none; border-radius: 6px; padding: 8px 16px; margin: 4px; cursor: pointer; }
        input { padding: 8px; border-radius: 6px; border: 1px solid var(--border); background: var(--bg); color: var(--text); }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid var(--border); }
        th { color: var(--muted); font-weight: 500; }
    </style>
</head>
<body>
    <nav>
        <a href="/">Home</a>
        <a href="/sensor-data">Sensor data</a>
        <a href="/ultrasonic">Ultrasonic</a>
        <a href="/grayscale">Grayscale</a>
        <a href="/control">Motors</a>
        <a href="/steering">Steering</a>
        <a href="/camera-control">Camera</a>
        <a href="/tts-control">TTS</a>
        <a href="/line-tracking">Line tracking</a>
        <a href="/obstacle-avoidance">Obstacle avoidance</a>
        <a href="/about">About</a>
    </nav>
    <main>
{{end}}

{{define "footer"}}
    </main>
</body>
</html>
{{end}}

{{define "messages"}}
        {{if .MsgOK}}<p class="msg-ok">{{.MsgOK}}</p>{{end}}
        {{if .MsgErr}}<p class="msg-err">{{.MsgErr}}</p>{{end}}
{{end}}

{{define "datepicker"}}
        <form method="get" class="card">
            <label for="date">Date (UTC)</label>
            <input type="date" id="date" name="date" value="{{.Date}}">
            <button type="submit">Show</button>
        </form>
{{end}}

{{define "sender"}}
        <script>
            async function send(path, body) {
                const status = document.getElementById("status");
                try {
                    const r = await fetch(path, {
                        method: "POST",
                        headers: {"Content-Type": "application/json"},
                        body: JSON.stringify(body),
                    });
                    const data = await r.json();
                    status.textContent = r.ok ? "Sent: " + Object.values(body)[0] : "Error: " + data.error;
                } catch (e) {
                    status.textContent = "Error: " + e;
                }
            }
        </script>
{{end}}

{{define "home"}}{{template "header" .}}
        <h1>PiCar-X Dashboard</h1>
        <div class="card">
            <h2>Live sensors</h2>
            <p class="muted">Last {{.LivePoints}} points from Adafruit IO, refreshed every 5 seconds.</p>
            <canvas id="liveChart"></canvas>
            <p>Last TTS: <span id="ttsText" class="muted">...</span></p>
            <p id="liveError" class="msg-err"></p>
        </div>
        <script>
            (function () {
                const chart = new Chart(document.getElementById("liveChart").getContext("2d"), {
                    type: "line",
                    data: {labels: [], datasets: [
                        {label: "Ultrasonic (cm)", data: [], tension: 0.25, fill: false},
                        {label: "Grayscale mid", data: [], tension: 0.25, fill: false},
                    ]},
                    options: {animation: false, scales: {x: {title: {display: true, text: "Time (UTC)"}}}},
                });
                async function refresh() {
                    const errBox = document.getElementById("liveError");
                    try {
                        const r = await fetch("/api/live");
                        const data = await r.json();
                        if (!r.ok) {
                            errBox.textContent = data.error;
                            return;
                        }
                        errBox.textContent = "";
                        chart.data.labels = data.labels;
                        chart.data.datasets[0].data = data.ultrasonic;
                        chart.data.datasets[1].data = data.gray_mid;
                        chart.update();
                        document.getElementById("ttsText").textContent = data.tts;
                    } catch (e) {
                        errBox.textContent = String(e);
                    }
                }
                refresh();
                setInterval(refresh, 5000);
            })();
        </script>
{{template "footer" .}}{{end}}

{{define "about"}}{{template "header" .}}
        <h1>About</h1>
        <div class="card">
            <p>This dashboard monitors and controls a SunFounder PiCar-X.</p>
            <p class="muted">Live values and commands go through Adafruit IO feeds. Historical sensor readings are stored in the sensor_readings table and charted per UTC day.</p>
        </div>
{{template "footer" .}}{{end}}

{{define "sensor_data"}}{{template "header" .}}
        <h1>Sensor data</h1>
{{template "datepicker" .}}
        <div class="card">
            {{if .Rows}}
            <table>
                <thead><tr><th>Time (UTC)</th><th>Sensor</th><th>Value</th></tr></thead>
                <tbody>
                {{range .Rows}}
                    <tr><td>{{.TS.Format "2006-01-02 15:04:05"}}</td><td>{{.Sensor}}</td><td>{{.Value}}</td></tr>
                {{end}}
                </tbody>
            </table>
            {{else}}
            <p class="muted">No readings for {{.Date}}.</p>
            {{end}}
        </div>
{{template "footer" .}}{{end}}

{{define "charts_ultra"}}{{template "header" .}}
        <h1>Ultrasonic distance</h1>
{{template "datepicker" .}}
        <div class="card">
            {{if .Ultrasonic.Labels}}
            <canvas id="ultraChart"
                data-labels="{{json .Ultrasonic.Labels}}"
                data-values="{{json .Ultrasonic.Values}}"></canvas>
            {{else}}
            <p class="muted">No ultrasonic readings for {{.Date}}.</p>
            {{end}}
        </div>
{{template "footer" .}}{{end}}

{{define "charts_gray"}}{{template "header" .}}
        <h1>Grayscale sensors</h1>
{{template "datepicker" .}}
        <div class="card">
            {{if .Grayscale.Labels}}
            <canvas id="grayChart"
                data-labels="{{json .Grayscale.Labels}}"
                data-left="{{json .Grayscale.Left}}"
                data-mid="{{json .Grayscale.Mid}}"
                data-right="{{json .Grayscale.Right}}"></canvas>
            {{else}}
            <p class="muted">No grayscale readings for {{.Date}}.</p>
            {{end}}
        </div>
{{template "footer" .}}{{end}}

{{define "control_motors"}}{{template "header" .}}
        <h1>Motors</h1>
        <div class="card">
            <p class="muted">Feed: {{.Feed}}</p>
            <button onclick="send('/api/control', {direction: 'forward'})">Forward</button>
            <button onclick="send('/api/control', {direction: 'stop'})">Stop</button>
            <button onclick="send('/api/control', {direction: 'backward'})">Backward</button>
            <p id="status" class="muted"></p>
        </div>
{{template "sender" .}}
{{template "footer" .}}{{end}}

{{define "steering"}}{{template "header" .}}
        <h1>Steering</h1>
        <div class="card">
            <p class="muted">Feed: {{.Feed}}</p>
            <button onclick="send('/api/steering', {direction: 'left'})">Left</button>
            <button onclick="send('/api/steering', {direction: 'center'})">Center</button>
            <button onclick="send('/api/steering', {direction: 'right'})">Right</button>
            <p id="status" class="muted"></p>
        </div>
{{template "sender" .}}
{{template "footer" .}}{{end}}

{{define "camera"}}{{template "header" .}}
        <h1>Camera</h1>
        <div class="card">
            <p class="muted">Feed: {{.Feed}}</p>
            <div>
                <button onclick="send('/api/camera', {command: 'pan_left'})">Pan left</button>
                <button onclick="send('/api/camera', {command: 'pan_center'})">Pan center</button>
                <button onclick="send('/api/camera', {command: 'pan_right'})">Pan right</button>
            </div>
            <div>
                <button onclick="send('/api/camera', {command: 'tilt_up'})">Tilt up</button>
                <button onclick="send('/api/camera', {command: 'tilt_center'})">Tilt center</button>
                <button onclick="send('/api/camera', {command: 'tilt_down'})">Tilt down</button>
            </div>
            <p id="status" class="muted"></p>
        </div>
{{template "sender" .}}
{{template "footer" .}}{{end}}

{{define "tts_control"}}{{template "header" .}}
        <h1>Text to speech</h1>
{{template "messages" .}}
        <form method="post" class="card">
            <p class="muted">Feed: {{.Feed}}</p>
            <input type="text" name="text" size="60" placeholder="Text to speak">
            <button type="submit">Speak</button>
        </form>
{{template "footer" .}}{{end}}

{{define "line_tracking"}}{{template "header" .}}
        <h1>Line tracking</h1>
{{template "messages" .}}
        <form method="post" class="card">
            <p class="muted">Feed: {{.Feed}}</p>
            <button type="submit" name="cmd" value="start">Start</button>
            <button type="submit" name="cmd" value="stop">Stop</button>
        </form>
{{template "footer" .}}{{end}}

{{define "obstacle"}}{{template "header" .}}
        <h1>Obstacle avoidance</h1>
{{template "messages" .}}
        <form method="post" class="card">
            <p class="muted">Feed: {{.Feed}}</p>
            <button type="submit" name="cmd" value="start">Start</button>
            <button type="submit" name="cmd" value="stop">Stop</button>
        </form>
{{template "footer" .}}{{end}}
`
