// Package sh is the interactive shell of panelctl. Command providers
// register ishell commands with AddCmds from their init funcs.
package sh

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/abiosoft/ishell"

	fx "github.com/robotalks/radiopanel/pkg/framework"
	"github.com/robotalks/radiopanel/pkg/l1"
	env "github.com/robotalks/radiopanel/pkg/l1/env/connector"
	"github.com/robotalks/radiopanel/pkg/l1/msgs"
)

// CommandTimeout is how long Request waits for a reply.
const CommandTimeout = 2 * time.Second

// ErrNotConnected is reported by commands which need a panel.
var ErrNotConnected = errors.New("not connected to a panel")

const shellKey = "$shell"

var (
	evalOnly   bool
	outputJSON bool

	commands = []*ishell.Cmd{&DiscoverCmd, &ConnectCmd, &DisconnectCmd}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell   *ishell.Shell
	Config  *env.Config
	Session *Session
}

// Session is the connection to the current panel with the loop
// delivering its replies.
type Session struct {
	Ref  l1.ControllerRef
	Conn l1.ControllerConn
	Loop *fx.Loop

	cancel func()
}

// Close stops the loop, which also closes the connection.
func (s *Session) Close() {
	s.cancel()
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		Shell:       ishell.New(),
		Config:      conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(promptFor(nil))
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Session == nil {
			c.Err(ErrNotConnected)
			return
		}
		fn(c)
	}
}

// promptFor shows the panel ID, and the type only for other controllers.
func promptFor(ref *l1.ControllerRef) string {
	switch {
	case ref == nil:
		return "[none] > "
	case ref.Type == l1.PanelType:
		return ref.ID + " > "
	default:
		return ref.Name() + " > "
	}
}

// FormatResult prints a reply for display.
func FormatResult(msg fx.Message) string {
	if _, ok := msg.(*msgs.CommandOK); ok {
		return "OK"
	}
	return fmt.Sprintf("%s %s",
		reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
		msg.(msgs.SerializableMessage).Serializable().String())
}

// Request runs a command on the current panel and returns the reply.
func Request(c *ishell.Context, msg fx.Message) (fx.Message, error) {
	session := ShellFrom(c).Session
	if session == nil {
		return nil, ErrNotConnected
	}
	f := session.Conn.DoCommand(msg)
	select {
	case res := <-f.ResultChan():
		return res.Msg, res.Err
	case <-time.After(CommandTimeout):
		return nil, fmt.Errorf("%s didn't reply: %w", session.Ref.Name(), context.DeadlineExceeded)
	}
}

// DoCommand runs a command, waits for and prints the result.
func DoCommand(c *ishell.Context, msg fx.Message) error {
	res, err := Request(c, msg)
	if err == nil && ShellFrom(c).OutputJSON {
		var out []byte
		if out, err = json.Marshal(res.(msgs.SerializableMessage).Serializable()); err == nil {
			c.Println(string(out))
		}
	} else if err == nil {
		c.Println(FormatResult(res))
	}
	if err != nil {
		c.Err(err)
	}
	return err
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens a Session to ref, replacing the current one.
func (s *Shell) Connect(ref l1.ControllerRef) error {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	conn, err := connector.Connect(ctx, ref)
	if err != nil {
		cancel()
		return err
	}
	session := &Session{Ref: ref, Conn: conn, Loop: fx.NewLoop(), cancel: cancel}
	if adder, ok := conn.(fx.LoopAdder); ok {
		session.Loop.Add(adder)
	}
	s.Disconnect()
	s.Session = session
	go session.Loop.Run(ctx)
	s.Shell.SetPrompt(promptFor(&ref))
	return nil
}

// Disconnect closes the current Session.
func (s *Shell) Disconnect() {
	if s.Session != nil {
		s.Session.Close()
		s.Session = nil
		s.Shell.SetPrompt(promptFor(nil))
	}
}

// Run runs the shell. With args, they are evaluated as a single command.
func (s *Shell) Run(args ...string) {
	if ref, err := s.Config.Ref(); s.AutoConnect && err == nil {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", ref.Name())
		}
		if err := s.Connect(ref); err != nil {
			log.Fatalf("connect %q failed: %v", ref.Name(), err)
		}
	}

	switch {
	case len(args) > 0:
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
	case s.Interactive:
		s.Shell.Run()
	default:
		log.Fatalln("command expected")
	}
}

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
