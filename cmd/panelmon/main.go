package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"reflect"

	"github.com/robotalks/radiopanel/pkg/l1/comm/mqtt"
	"github.com/robotalks/radiopanel/pkg/l1/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/panel/"
)

func init() {
	if val := os.Getenv("PANEL_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

// describe formats a packet received on topic.
func describe(topic string, payload []byte) string {
	_, kind, ok := mqtt.SplitTopic(topic)
	if !ok {
		return topic + ": (not a panel topic)"
	}
	if kind == "meta" {
		if len(payload) == 0 {
			return topic + ": (gone)"
		}
		return topic + ": " + string(payload)
	}
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		return topic + ": bad message: " + err.Error()
	}
	msg, err := typed.Decode()
	if err != nil {
		return topic + ": decode error: " + err.Error()
	}
	return topic + ": [" + reflect.Indirect(reflect.ValueOf(msg)).Type().Name() + "] " +
		msg.(msgs.SerializableMessage).Serializable().String()
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	defer q.Close()

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		log.Println(describe(topic, payload))
	}))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh
}
