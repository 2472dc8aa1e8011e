package mqtt

import (
	"strings"
	"sync"

	"github.com/robotalks/radiopanel/pkg/l1"
)

// Topics under the broker prefix, per panel:
//
//	TYPE/ID/meta  retained ControllerMeta JSON, empty when the panel left
//	TYPE/ID/cmd   commands from tools, replies travel back on msg
//	TYPE/ID/msg   events and replies from the panel
const (
	metaSuffix = "meta"
	cmdSuffix  = "cmd"
	msgSuffix  = "msg"

	// MetaPattern matches the meta topic of every panel.
	MetaPattern = "+/+/" + metaSuffix
)

// MetaTopic is where ref announces itself.
func MetaTopic(ref l1.ControllerRef) string {
	return ref.Name() + "/" + metaSuffix
}

// CommandTopic is where ref receives commands.
func CommandTopic(ref l1.ControllerRef) string {
	return ref.Name() + "/" + cmdSuffix
}

// MessageTopic is where ref publishes events and replies.
func MessageTopic(ref l1.ControllerRef) string {
	return ref.Name() + "/" + msgSuffix
}

// SplitTopic extracts the panel and the kind of a topic.
func SplitTopic(topic string) (ref l1.ControllerRef, kind string, ok bool) {
	items := strings.Split(topic, "/")
	if len(items) != 3 {
		return ref, "", false
	}
	switch items[2] {
	case metaSuffix, cmdSuffix, msgSuffix:
	default:
		return ref, "", false
	}
	ref = l1.ControllerRef{Type: items[0], ID: items[1]}
	return ref, items[2], ref.IsValid()
}

// IsPattern tells if a topic filter contains wildcards.
func IsPattern(filter string) bool {
	return strings.Contains(filter, "+") || strings.HasSuffix(filter, "#")
}

// MatchTopic matches topic with pattern. A trailing # also matches
// the parent level.
func MatchTopic(topic, pattern string) bool {
	levels, filter := strings.Split(topic, "/"), strings.Split(pattern, "/")
	for i, token := range filter {
		if token == "#" && i+1 == len(filter) {
			return true
		}
		if i >= len(levels) {
			return false
		}
		if token != "+" && token != levels[i] {
			return false
		}
	}
	return len(filter) == len(levels)
}

// Handler is the callback when a message is received.
type Handler func(topic string, payload []byte)

// subscriptions maps topic filters to their subscribers. A filter is
// subscribed at the broker while it has at least one subscriber.
type subscriptions struct {
	lock    sync.RWMutex
	filters map[string][]*Subscription
}

// add returns true when sub is the first one of its filter.
func (s *subscriptions) add(sub *Subscription) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.filters == nil {
		s.filters = make(map[string][]*Subscription)
	}
	subs := s.filters[sub.topic]
	s.filters[sub.topic] = append(subs, sub)
	return len(subs) == 0
}

// remove returns true when sub was the last one of its filter.
func (s *subscriptions) remove(sub *Subscription) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	subs := s.filters[sub.topic]
	found := false
	for i, item := range subs {
		if item == sub {
			subs = append(subs[:i:i], subs[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if len(subs) == 0 {
		delete(s.filters, sub.topic)
		return true
	}
	s.filters[sub.topic] = subs
	return false
}

func (s *subscriptions) topics() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	topics := make([]string, 0, len(s.filters))
	for topic := range s.filters {
		topics = append(topics, topic)
	}
	return topics
}

func (s *subscriptions) handlers(topic string) []Handler {
	s.lock.RLock()
	defer s.lock.RUnlock()
	var handlers []Handler
	for filter, subs := range s.filters {
		if filter != topic && !(IsPattern(filter) && MatchTopic(topic, filter)) {
			continue
		}
		for _, sub := range subs {
			handlers = append(handlers, sub.handler)
		}
	}
	return handlers
}
