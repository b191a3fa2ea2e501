package server

import (
	"bytes"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wesleyorama2/picarx-dash/internal/chartjs"
	"github.com/wesleyorama2/picarx-dash/internal/config"
	"github.com/wesleyorama2/picarx-dash/internal/page"
	"github.com/wesleyorama2/picarx-dash/internal/series"
	"github.com/wesleyorama2/picarx-dash/internal/store"
)

// noTTS is shown on the live panel when the TTS feed has no value.
const noTTS = "(no TTS data)"

// pageData is the data every page template is executed with.
type pageData struct {
	Title   string
	ChartJS string

	// Date is the selected UTC day, YYYY-MM-DD
	Date string

	Feed   string
	MsgOK  string
	MsgErr string

	LivePoints int

	Rows       []store.Reading
	Ultrasonic series.Ultrasonic
	Grayscale  series.Grayscale
}

func (s *Server) newPage(title string) *pageData {
	return &pageData{
		Title:      title,
		ChartJS:    chartjs.ScriptURL,
		LivePoints: s.cfg.Charts.LivePoints,
	}
}

// render executes a page template and writes it.
func (s *Server) render(c *gin.Context, name string, data *pageData) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.fail(c, fmt.Errorf("failed to render %s: %w", name, err))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// renderChart executes a chart page template, initializes its charts and writes it.
func (s *Server) renderChart(c *gin.Context, chartName, name string, data *pageData) {
	var body bytes.Buffer
	if err := s.pages.ExecuteTemplate(&body, name, data); err != nil {
		s.fail(c, fmt.Errorf("failed to render %s: %w", name, err))
		return
	}

	engine := chartjs.NewEngine()

	var out bytes.Buffer
	if err := page.Render(&out, &body, engine, s.logger(c)); err != nil {
		s.fail(c, err)
		return
	}

	outcome := "rendered"
	if len(engine.Constructions()) == 0 {
		outcome = "empty"
	}
	s.recorder.ChartPage(chartName, outcome)

	c.Data(http.StatusOK, "text/html; charset=utf-8", out.Bytes())
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, "Internal Server Error")
}

// day returns the UTC day selected by the date query parameter, or today.
func (s *Server) day(c *gin.Context) time.Time {
	if d, err := time.Parse(time.DateOnly, c.Query("date")); err == nil {
		return d
	}
	return s.now().UTC()
}

func (s *Server) home(c *gin.Context) {
	s.render(c, "home", s.newPage("Home"))
}

func (s *Server) about(c *gin.Context) {
	s.render(c, "about", s.newPage("About"))
}

func (s *Server) sensorData(c *gin.Context) {
	day := s.day(c)

	rows, err := s.readings.Readings(c.Request.Context(), store.Query{
		Day:   day,
		Order: store.Descending,
		Limit: s.cfg.Charts.TableLimit,
	})
	if err != nil {
		s.fail(c, fmt.Errorf("failed to load readings: %w", err))
		return
	}

	data := s.newPage("Sensor data")
	data.Date = day.Format(time.DateOnly)
	data.Rows = rows
	s.render(c, "sensor_data", data)
}

func (s *Server) ultrasonicChart(c *gin.Context) {
	day := s.day(c)

	rows, err := s.readings.Readings(c.Request.Context(), store.Query{
		Day:     day,
		Sensors: []string{store.SensorUltrasonic},
		Order:   store.Ascending,
		Limit:   s.cfg.Charts.UltrasonicLimit,
	})
	if err != nil {
		s.fail(c, fmt.Errorf("failed to load ultrasonic readings: %w", err))
		return
	}

	data := s.newPage("Ultrasonic")
	data.Date = day.Format(time.DateOnly)
	data.Ultrasonic = series.BuildUltrasonic(rows)
	s.renderChart(c, "ultrasonic", "charts_ultra", data)
}

func (s *Server) grayscaleChart(c *gin.Context) {
	day := s.day(c)

	rows, err := s.readings.Readings(c.Request.Context(), store.Query{
		Day:     day,
		Sensors: store.GraySensors,
		Order:   store.Ascending,
	})
	if err != nil {
		s.fail(c, fmt.Errorf("failed to load grayscale readings: %w", err))
		return
	}

	data := s.newPage("Grayscale")
	data.Date = day.Format(time.DateOnly)
	data.Grayscale = series.BuildGrayscale(rows)
	s.renderChart(c, "grayscale", "charts_gray", data)
}

// feedPage serves a static control page showing the feed it publishes to.
func (s *Server) feedPage(name, title string, feed func(config.FeedsConfig) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := s.newPage(title)
		data.Feed = feed(s.cfg.AIO.Feeds)
		s.render(c, name, data)
	}
}

func (s *Server) ttsControl(c *gin.Context) {
	feed := s.cfg.AIO.Feeds.TTS

	data := s.newPage("TTS")
	data.Feed = feed

	if c.Request.Method == http.MethodPost {
		text := strings.TrimSpace(c.PostForm("text"))
		s.logger(c).Debug("TTS text from form", zap.String("text", text))

		switch {
		case text == "":
			data.MsgErr = "Please enter some text to speak."
		default:
			if err := s.feeds.Send(c.Request.Context(), feed, text); err != nil {
				s.logger(c).Warn("Failed to send TTS", zap.String("feed", feed), zap.Error(err))
				data.MsgErr = fmt.Sprintf("Error sending TTS: %v", err)
			} else {
				data.MsgOK = fmt.Sprintf("TTS command sent: '%s'", text)
			}
		}
	}

	s.render(c, "tts_control", data)
}

// modeControl serves a start/stop form page for a driving mode.
func (s *Server) modeControl(name, title string, feed func(config.FeedsConfig) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := feed(s.cfg.AIO.Feeds)

		data := s.newPage(title)
		data.Feed = key

		if c.Request.Method == http.MethodPost {
			cmd := c.PostForm("cmd")
			switch {
			case cmd != "start" && cmd != "stop":
				data.MsgErr = "Invalid command."
			default:
				if err := s.feeds.Send(c.Request.Context(), key, cmd); err != nil {
					s.logger(c).Warn("Failed to send command", zap.String("feed", key), zap.Error(err))
					data.MsgErr = fmt.Sprintf("Error sending command: %v", err)
				} else {
					data.MsgOK = fmt.Sprintf("Command '%s' sent to feed '%s'.", cmd, key)
				}
			}
		}

		s.render(c, name, data)
	}
}

// commandRoute describes a JSON command endpoint.
type commandRoute struct {
	field   string
	allowed []string
	invalid string
	feed    func(config.FeedsConfig) string
}

// command publishes the value of route.field from the JSON body to the feed.
// A missing or unparsable body is treated as empty.
func (s *Server) command(route commandRoute) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload map[string]any
		_ = c.ShouldBindJSON(&payload)

		value, _ := payload[route.field].(string)
		if !slices.Contains(route.allowed, value) {
			c.JSON(http.StatusBadRequest, gin.H{"error": route.invalid})
			return
		}

		feed := route.feed(s.cfg.AIO.Feeds)
		if err := s.feeds.Send(c.Request.Context(), feed, value); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

type liveResponse struct {
	Labels     []string   `json:"labels"`
	Ultrasonic []*float64 `json:"ultrasonic"`
	GrayMid    []*float64 `json:"gray_mid"`
	TTS        string     `json:"tts"`
}

func (s *Server) apiLive(c *gin.Context) {
	ctx := c.Request.Context()
	feeds := s.cfg.AIO.Feeds
	limit := s.cfg.Charts.LivePoints

	labelsU, ultra, err := s.feeds.LastPoints(ctx, feeds.Ultrasonic, limit)
	if err != nil {
		s.liveError(c, err)
		return
	}

	labelsG, gray, err := s.feeds.LastPoints(ctx, feeds.GrayMid, limit)
	if err != nil {
		s.liveError(c, err)
		return
	}

	labels := labelsU
	if len(labels) == 0 {
		labels = labelsG
	}

	tts, err := s.feeds.LastValue(ctx, feeds.TTS)
	if err != nil {
		s.logger(c).Debug("No TTS value", zap.String("feed", feeds.TTS), zap.Error(err))
		tts = ""
	}
	if tts == "" {
		tts = noTTS
	}

	c.JSON(http.StatusOK, liveResponse{
		Labels:     nonNil(labels),
		Ultrasonic: nonNil(ultra),
		GrayMid:    nonNil(gray),
		TTS:        tts,
	})
}

func (s *Server) liveError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (s *Server) apiStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.recorder.Snapshot())
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
