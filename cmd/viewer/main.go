package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blang/semver"
	"github.com/fatih/color"
	"github.com/op/go-logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"

	"github.com/example/viewer-circuit/internal/config"
	"github.com/example/viewer-circuit/internal/logctx"
	"github.com/example/viewer-circuit/internal/region"
	"github.com/example/viewer-circuit/internal/wire"
	"github.com/example/viewer-circuit/login"
	"github.com/example/viewer-circuit/session"
)

const version = "0.1.0"

func banner() {
	cyan := color.New(color.FgHiCyan)
	cyan.EnableColor()
	green := color.New(color.FgHiGreen)
	green.EnableColor()

	fmt.Println(cyan.SprintFunc()("viewer-circuit — virtual-world UDP circuit client"))
	fmt.Println(green.SprintFunc()(fmt.Sprintf("version %s", version)))
}

// circuitFlags are the flags every command needs to reach a simulator
// and stand up a Session, shared across login/chat/teleport/logout.
var circuitFlags = []cli.Flag{
	cli.StringFlag{Name: "first", Usage: "first name"},
	cli.StringFlag{Name: "last", Usage: "last name"},
	cli.StringFlag{Name: "home", Usage: "use home as the start location"},
	cli.StringFlag{Name: "start", Usage: "uri:Name&X&Y&Z start location"},
	cli.StringFlag{Name: "sim-ip", Usage: "simulator IP address"},
	cli.IntFlag{Name: "sim-port", Usage: "simulator UDP port"},
	cli.IntFlag{Name: "circuit-code", Usage: "circuit code from the login RPC"},
}

func main() {
	banner()
	logctx.Setup(logging.INFO)

	app := cli.NewApp()
	app.Name = "viewer"
	app.Usage = "drive a simulator circuit from the command line"
	app.Commands = []cli.Command{
		{
			Name:  "login",
			Usage: "open a circuit to a simulator and stay connected",
			Flags: append(append([]cli.Flag{}, circuitFlags...),
				cli.StringFlag{Name: "metrics-addr", Usage: "address to serve /metrics on, e.g. :9090 (disabled if empty)"},
			),
			Action: loginCommand,
		},
		{
			Name:  "chat",
			Usage: "log in, send one chat message, and log out",
			Flags: append(append([]cli.Flag{}, circuitFlags...),
				cli.StringFlag{Name: "text", Usage: "message text"},
				cli.IntFlag{Name: "channel", Usage: "chat channel"},
				cli.IntFlag{Name: "chat-type", Value: 1, Usage: "chat type (0=whisper,1=say,2=shout)"},
			),
			Action: chatCommand,
		},
		{
			Name:  "teleport",
			Usage: "log in, request a teleport, and log out",
			Flags: append(append([]cli.Flag{}, circuitFlags...),
				cli.IntFlag{Name: "grid-x", Usage: "destination region grid X"},
				cli.IntFlag{Name: "grid-y", Usage: "destination region grid Y"},
				cli.Float64Flag{Name: "pos-x", Usage: "destination local position X"},
				cli.Float64Flag{Name: "pos-y", Usage: "destination local position Y"},
				cli.Float64Flag{Name: "pos-z", Usage: "destination local position Z"},
			),
			Action: teleportCommand,
		},
		{
			Name:   "logout",
			Usage:  "log in and immediately log back out, cleanly",
			Flags:  circuitFlags,
			Action: logoutCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logctx.Log.Fatalf("viewer: %v", err)
	}
}

// tokenFromFlags builds a login.Token from the flags shared by every
// command, standing in for the out-of-scope XML-RPC login RPC.
func tokenFromFlags(c *cli.Context) (login.Token, error) {
	startRaw := c.String("start")
	if startRaw == "" {
		if c.String("home") != "" {
			startRaw = "home"
		} else {
			startRaw = "last"
		}
	}
	if _, err := login.ParseStartLocation(startRaw); err != nil {
		return login.Token{}, err
	}

	simIP := net.ParseIP(c.String("sim-ip"))
	if simIP == nil {
		return login.Token{}, fmt.Errorf("viewer: --sim-ip is required and must be a valid IP")
	}

	return login.Token{
		Login:           "true",
		AgentID:         wire.UUID{},
		SessionID:       wire.UUID{},
		CircuitCode:     uint32(c.Int("circuit-code")),
		SimIP:           simIP,
		SimPort:         uint16(c.Int("sim-port")),
		ProtocolVersion: semver.MustParse("1.0.0"),
	}, nil
}

func openSessionFromFlags(c *cli.Context) (*session.Session, error) {
	tok, err := tokenFromFlags(c)
	if err != nil {
		return nil, err
	}
	sess, err := session.Open(tok, config.Default())
	if err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	return sess, nil
}

// loginCommand demonstrates the Session façade end to end: it builds a
// login.Token from flags, opens a circuit, and stays connected until
// interrupted.
func loginCommand(c *cli.Context) error {
	sess, err := openSessionFromFlags(c)
	if err != nil {
		return err
	}

	if addr := c.String("metrics-addr"); addr != "" {
		prometheus.MustRegister(sess.Collectors()...)
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(addr, nil); err != nil {
				logctx.Log.Warningf("viewer: metrics server: %v", err)
			}
		}()
		logctx.Log.Infof("viewer: serving /metrics on %s", addr)
	}

	sess.OnChat(func(chat session.IncomingChat) {
		logctx.Log.Infof("%s: %s", chat.FromName, chat.Text)
	})

	go sess.Listen()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-sess.Errors():
		logctx.Log.Warningf("viewer: circuit error: %v", err)
	case sig := <-sigChan:
		logctx.Log.Infof("viewer: received signal %v, logging out", sig)
		if err := sess.Logout(); err != nil {
			logctx.Log.Warningf("viewer: logout: %v", err)
		}
		time.Sleep(200 * time.Millisecond)
	}
	return nil
}

// chatCommand logs in just long enough to send one chat message.
func chatCommand(c *cli.Context) error {
	sess, err := openSessionFromFlags(c)
	if err != nil {
		return err
	}
	go sess.Listen()

	if err := sess.SendChat(c.String("text"), int32(c.Int("channel")), uint8(c.Int("chat-type"))); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	time.Sleep(200 * time.Millisecond)

	if err := sess.Logout(); err != nil {
		logctx.Log.Warningf("viewer: logout: %v", err)
	}
	return nil
}

// teleportCommand logs in, requests a teleport to the given region grid
// coordinate and local position, and logs back out.
func teleportCommand(c *cli.Context) error {
	sess, err := openSessionFromFlags(c)
	if err != nil {
		return err
	}
	go sess.Listen()

	pos := wire.Vector3{X: float32(c.Float64("pos-x")), Y: float32(c.Float64("pos-y")), Z: float32(c.Float64("pos-z"))}
	gridX, gridY := uint32(c.Int("grid-x")), uint32(c.Int("grid-y"))
	if err := sess.Teleport(gridX, gridY, pos, pos); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	logctx.Log.Infof("viewer: requested teleport to region handle %d", region.Pack(gridX, gridY))
	time.Sleep(200 * time.Millisecond)

	if err := sess.Logout(); err != nil {
		logctx.Log.Warningf("viewer: logout: %v", err)
	}
	return nil
}

// logoutCommand opens a circuit and tears it back down cleanly, useful
// for exercising the LogoutRequest/CloseCircuit handshake in isolation.
func logoutCommand(c *cli.Context) error {
	sess, err := openSessionFromFlags(c)
	if err != nil {
		return err
	}
	go sess.Listen()
	return sess.Logout()
}
