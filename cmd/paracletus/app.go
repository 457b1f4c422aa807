package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"paracletus/internal/config"
	"paracletus/internal/gps"
	"paracletus/internal/led"
	"paracletus/internal/mqtt"
	"paracletus/internal/nmea"
	"paracletus/internal/sim"
	"paracletus/internal/udp"
	"paracletus/internal/web"
)

// app owns every long-lived component. Optional outputs that fail to
// initialize are logged and skipped.
type app struct {
	cfg    config.Config
	parser *nmea.Parser
	reg    *prometheus.Registry
	status *web.Status
	hub    *web.Hub
	logs   *web.LogBuffer
	gpsSvc *gps.Service

	udp  *udp.Broadcaster
	mqtt *mqtt.Publisher
	led  *led.LED

	sinkNames []string
	wg        sync.WaitGroup
}

func newApp(cfg config.Config, logs *web.LogBuffer) *app {
	a := &app{
		cfg:    cfg,
		parser: nmea.NewParser(cfg.NMEA.Sentences, cfg.NMEA.Offset()),
		reg:    prometheus.NewRegistry(),
		status: web.NewStatus(),
		hub:    web.NewHub(),
		logs:   logs,
	}
	a.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sinks := []gps.Sink{a.hub}
	a.sinkNames = append(a.sinkNames, "ws")

	if cfg.UDP.Enable {
		b, err := udp.NewBroadcaster(cfg.UDP.Dest)
		if err != nil {
			log.Error().Err(err).Str("dest", cfg.UDP.Dest).Msg("udp disabled")
		} else {
			a.udp = b
			sinks = append(sinks, b)
			a.sinkNames = append(a.sinkNames, "udp")
			log.Info().Str("dest", cfg.UDP.Dest).Msg("udp enabled")
		}
	}

	if cfg.MQTT.Enable {
		p, err := mqtt.NewPublisher(mqtt.Config{
			Broker:   cfg.MQTT.Broker,
			ClientID: cfg.MQTT.ClientID,
			Topic:    cfg.MQTT.Topic,
			QoS:      cfg.MQTT.QoS,
			Retain:   cfg.MQTT.Retain,
		})
		if err != nil {
			log.Error().Err(err).Str("broker", cfg.MQTT.Broker).Msg("mqtt disabled")
		} else {
			a.mqtt = p
			sinks = append(sinks, p)
			a.sinkNames = append(a.sinkNames, "mqtt")
		}
	}

	opts := []gps.Option{
		gps.WithSinks(sinks...),
		gps.WithMetrics(gps.NewMetrics(a.reg)),
	}
	if cfg.LED.Enable {
		l, err := led.Open(cfg.LED.Pin)
		if err != nil {
			log.Warn().Err(err).Int("pin", cfg.LED.Pin).Msg("fix led disabled")
		} else {
			a.led = l
			opts = append(opts, gps.WithIndicator(l))
			log.Info().Int("pin", cfg.LED.Pin).Msg("fix led enabled")
		}
	}

	a.gpsSvc = gps.New(gpsConfig(cfg.GPS), a.parser, opts...)
	a.status.SetStatic(a.parser.Classifier().Codes(), cfg.NMEA.Offset(), a.sinkNames)
	return a
}

func gpsConfig(c config.GPSConfig) gps.Config {
	out := gps.Config{
		Enable:         c.Enable,
		Source:         c.Source,
		Device:         c.Device,
		Baud:           c.Baud,
		Driver:         c.Driver,
		GPSDAddr:       c.GPSDAddr,
		ReopenInterval: c.ReopenInterval,
		ReplayPath:     c.Replay.Path,
		ReplaySpeed:    c.Replay.Speed,
		ReplayLoop:     c.Replay.Loop,
		Sim: sim.Receiver{
			CenterLatDeg: c.Sim.CenterLat,
			CenterLonDeg: c.Sim.CenterLon,
			RadiusNm:     c.Sim.RadiusNm,
			Period:       c.Sim.Period,
			Talker:       c.Sim.Talker,
		},
		SimInterval: c.Sim.Interval,
	}
	if c.Record.Enable {
		out.RecordPath = c.Record.Path
	}
	return out
}

func (a *app) handler() http.Handler {
	return web.Handler(web.Deps{
		Status:   a.status,
		GPS:      a.gpsSvc.Snapshot,
		Hub:      a.hub,
		Logs:     a.logs,
		Gatherer: a.reg,
	})
}

// Start brings up the web server and the GPS reader. Only a GPS start
// failure is returned; the web server logs its own failure.
func (a *app) Start(ctx context.Context) error {
	if a.cfg.Web.Enable {
		listen := a.cfg.Web.Listen
		h := a.handler()
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			log.Info().Str("listen", listen).Msg("web enabled")
			if err := web.Serve(ctx, listen, h); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Str("listen", listen).Msg("web server stopped")
			}
		}()
	}
	return a.gpsSvc.Start(ctx)
}

// Close stops the reader before releasing the outputs it publishes to.
// The web server stops when the Start context ends.
func (a *app) Close() {
	a.gpsSvc.Close()
	if a.udp != nil {
		_ = a.udp.Close()
	}
	if a.mqtt != nil {
		a.mqtt.Close()
	}
	if a.led != nil {
		_ = a.led.Close()
	}
	a.wg.Wait()
}
