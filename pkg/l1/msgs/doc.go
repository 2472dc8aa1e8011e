// Package msgs defines the remote protocol of a panel and its messages.
//
// Every packet is a Typed envelope: a type ID, a command sequence and the
// protobuf encoded message. Commands are answered with a reply carrying
// the same sequence. Events are pushed to all peers.
//
// Producer: paneld
// Consumer: panelctl, panelmon and browsers over websocket
package msgs
