package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/helioworks/solar-fleet-telemetry/internal/config"
	"github.com/helioworks/solar-fleet-telemetry/internal/domain"
)

const fleetSize = 8

func makeBatch() domain.IngestBatch {
	panels := make([]domain.PanelSample, 0, fleetSize)
	total := 0.0
	effSum := 0
	for i := 0; i < fleetSize; i++ {
		p := domain.PanelSample{
			Name:             fmt.Sprintf("P%02d", i+1),
			Power:            200 + rand.Float64()*150,
			Efficiency:       60 + rand.Intn(40),
			Status:           "online",
			Temperature:      30 + rand.Intn(25),
			DirtLevel:        rand.Intn(50),
			DustAccumulation: "moderate",
		}
		if p.DirtLevel >= domain.DirtLevelDirty {
			p.DustAccumulation = "high"
		} else if p.DirtLevel < domain.DirtLevelClean {
			p.DustAccumulation = "low"
		}
		total += p.Power
		effSum += p.Efficiency
		panels = append(panels, p)
	}
	return domain.IngestBatch{
		Panels:        panels,
		TotalPower:    total,
		AvgEfficiency: float64(effSum) / fleetSize,
	}
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	topic := config.MQTTTopic()
	for i := 0; i < 100; i++ {
		payload, _ := json.Marshal(makeBatch())
		token := client.Publish(topic, 0, false, payload)
		token.Wait()
		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}
