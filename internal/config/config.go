package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"paracletus/internal/nmea"
)

type Config struct {
	GPS  GPSConfig  `yaml:"gps"`
	NMEA NMEAConfig `yaml:"nmea"`
	MQTT MQTTConfig `yaml:"mqtt"`
	UDP  UDPConfig  `yaml:"udp"`
	Web  WebConfig  `yaml:"web"`
	LED  LEDConfig  `yaml:"led"`
	Log  LogConfig  `yaml:"log"`
}

type GPSConfig struct {
	Enable bool `yaml:"enable"`
	// Source is "serial" (default), "gpsd", "replay" or "sim".
	Source string `yaml:"source"`
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
	// GPSDAddr is host:port of a gpsd daemon for source "gpsd".
	GPSDAddr string `yaml:"gpsd_addr"`
	// Driver is "termios" or "jacobsa". Empty picks the platform default.
	Driver         string        `yaml:"driver"`
	ReopenInterval time.Duration `yaml:"reopen_interval"`
	Record         RecordConfig  `yaml:"record"`
	Replay         ReplayConfig  `yaml:"replay"`
	Sim            SimConfig     `yaml:"sim"`
}

type RecordConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
}

type ReplayConfig struct {
	Path  string  `yaml:"path"`
	Speed float64 `yaml:"speed"`
	Loop  bool    `yaml:"loop"`
}

// SimConfig drives the simulated receiver (source "sim").
type SimConfig struct {
	CenterLat float64       `yaml:"center_lat"`
	CenterLon float64       `yaml:"center_lon"`
	RadiusNm  float64       `yaml:"radius_nm"`
	Period    time.Duration `yaml:"period"`
	Interval  time.Duration `yaml:"interval"`
	Talker    string        `yaml:"talker"`
}

type NMEAConfig struct {
	Sentences []string `yaml:"sentences"`
	// UTCOffset is added to fix times; nil means nmea.DefaultUTCOffset.
	UTCOffset *time.Duration `yaml:"utc_offset"`
}

// Offset returns the configured civil time offset.
func (c NMEAConfig) Offset() time.Duration {
	if c.UTCOffset == nil {
		return nmea.DefaultUTCOffset
	}
	return *c.UTCOffset
}

type MQTTConfig struct {
	Enable   bool   `yaml:"enable"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
	Retain   bool   `yaml:"retain"`
}

type UDPConfig struct {
	Enable bool   `yaml:"enable"`
	Dest   string `yaml:"dest"`
}

type WebConfig struct {
	Enable bool   `yaml:"enable"`
	Listen string `yaml:"listen"`
}

type LEDConfig struct {
	Enable bool `yaml:"enable"`
	Pin    int  `yaml:"pin"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes YAML, applies defaults and validates.
func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	gps := &cfg.GPS
	gps.Source = strings.ToLower(strings.TrimSpace(gps.Source))
	if gps.Source == "" {
		gps.Source = "serial"
	}
	if gps.Baud == 0 {
		gps.Baud = 9600
	}
	if gps.ReopenInterval <= 0 {
		gps.ReopenInterval = 2 * time.Second
	}
	gps.Driver = strings.ToLower(strings.TrimSpace(gps.Driver))

	switch gps.Source {
	case "serial":
	case "gpsd":
		gps.GPSDAddr = strings.TrimSpace(gps.GPSDAddr)
		if gps.GPSDAddr == "" {
			gps.GPSDAddr = "127.0.0.1:2947"
		}
	case "replay":
		if gps.Enable && gps.Replay.Path == "" {
			return Config{}, fmt.Errorf("gps.replay.path is required when gps.source is 'replay'")
		}
		if gps.Replay.Speed == 0 {
			gps.Replay.Speed = 1
		}
		if gps.Replay.Speed < 0 {
			return Config{}, fmt.Errorf("gps.replay.speed must be > 0")
		}
	case "sim":
		if gps.Sim.Interval <= 0 {
			gps.Sim.Interval = time.Second
		}
		if gps.Sim.CenterLat < -89 || gps.Sim.CenterLat > 89 {
			return Config{}, fmt.Errorf("gps.sim.center_lat must be within [-89,89]")
		}
		if gps.Sim.CenterLon < -180 || gps.Sim.CenterLon > 180 {
			return Config{}, fmt.Errorf("gps.sim.center_lon must be within [-180,180]")
		}
		if t := gps.Sim.Talker; t != "" && len(t) != 2 {
			return Config{}, fmt.Errorf("gps.sim.talker must be 2 characters")
		}
	default:
		return Config{}, fmt.Errorf("gps.source must be 'serial', 'gpsd', 'replay' or 'sim'")
	}
	switch gps.Driver {
	case "", "termios", "jacobsa":
	default:
		return Config{}, fmt.Errorf("gps.driver must be 'termios' or 'jacobsa'")
	}
	if gps.Record.Enable {
		if gps.Source == "replay" {
			return Config{}, fmt.Errorf("gps.record cannot be used with gps.source=replay")
		}
		if gps.Record.Path == "" {
			return Config{}, fmt.Errorf("gps.record.path is required when gps.record.enable is true")
		}
	}

	if len(cfg.NMEA.Sentences) == 0 {
		cfg.NMEA.Sentences = append([]string(nil), nmea.DefaultSentences...)
	}
	for _, code := range cfg.NMEA.Sentences {
		if len(code) != nmea.CodeLen {
			return Config{}, fmt.Errorf("nmea.sentences: %q must be %d characters", code, nmea.CodeLen)
		}
	}

	if cfg.MQTT.Enable {
		if cfg.MQTT.Broker == "" {
			return Config{}, fmt.Errorf("mqtt.broker is required when mqtt.enable is true")
		}
		if cfg.MQTT.QoS > 2 {
			return Config{}, fmt.Errorf("mqtt.qos must be 0, 1 or 2")
		}
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "paracletus-gps"
	}
	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = "paracletus/gps"
	}

	if cfg.UDP.Enable && cfg.UDP.Dest == "" {
		return Config{}, fmt.Errorf("udp.dest is required when udp.enable is true")
	}

	if cfg.Web.Listen == "" {
		cfg.Web.Listen = ":8080"
	}

	if cfg.LED.Enable && cfg.LED.Pin <= 0 {
		return Config{}, fmt.Errorf("led.pin is required when led.enable is true")
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}
