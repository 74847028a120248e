package main

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/helioworks/solar-fleet-telemetry/internal/config"
	"github.com/helioworks/solar-fleet-telemetry/internal/database"
	"github.com/helioworks/solar-fleet-telemetry/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	// Non-fatal like the API: the subscriber keeps running and each failed
	// ingest is logged until the database comes back.
	if err := db.Ping(); err != nil {
		log.Error().Err(err).Msg("db unreachable at startup")
	} else if err := database.Migrate(db); err != nil {
		log.Error().Err(err).Msg("schema bootstrap failed")
	}

	svcs := service.New(db)

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if err := svcs.Ingestion.FromMQTT(msg.Topic(), msg.Payload()); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("ingest failed")
		}
	}

	topic := config.MQTTTopic()
	if token := client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	log.Info().Str("topic", topic).Msg("ingestor running; Ctrl+C to stop")
	for {
		time.Sleep(10 * time.Second)
	}
}
