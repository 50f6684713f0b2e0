package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	in   io.Reader
	out  io.Writer
	mu   sync.Mutex // serializes writes to out
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn, in io.Reader, out io.Writer) *Client {
	return &Client{conn: conn, in: in, out: out}
}

// Connect dials a server and runs the REPL on stdin/stdout.
func Connect(ctx context.Context, addr string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	fmt.Println("Connected! Type 'help' for commands.")
	return NewClient(conn, os.Stdin, os.Stdout).RunREPL(ctx)
}

// RunREPL renders server messages as they arrive and sends one command per
// input line. It returns when the user quits or either side closes.
func (c *Client) RunREPL(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() { errCh <- c.readLoop() }()
	go func() { errCh <- c.inputLoop() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return nil
	}
}

func (c *Client) readLoop() error {
	dec := json.NewDecoder(c.conn)
	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}
		c.render(msg)
	}
}

func (c *Client) inputLoop() error {
	enc := json.NewEncoder(c.conn)
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "help" || line == "?" {
			c.printf("%s", helpText)
			continue
		}
		msg, err := ParseCommand(line)
		if err != nil {
			c.printf("%v (type 'help')\n", err)
			continue
		}
		if err := enc.Encode(msg); err != nil {
			return fmt.Errorf("send %s: %w", msg.Type, err)
		}
		if msg.Type == MsgQuit {
			return nil
		}
	}
	return scanner.Err()
}

const helpText = `Commands:
  play H S      play hand card H into your slot S
  play H S w    set a trap or cage from hand card H on the Warden's slot S
  sac H         sacrifice hand card H for seeds
  end           end your turn
  skip          skip your attacks and draw
  start         leave the menu and begin
  next          proceed to the next chapter
  level N       jump to chapter N
  menu          abandon the run
  quit          leave
`

// ParseCommand converts one REPL line into a client message. Hand and slot
// numbers are 1-based on input.
func ParseCommand(line string) (ClientMessage, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return ClientMessage{}, errors.New("empty command")
	}
	args := fields[1:]
	nums := func(n int) ([]int, error) {
		if len(args) < n {
			return nil, fmt.Errorf("%s needs %d number(s)", fields[0], n)
		}
		out := make([]int, n)
		for i := range n {
			v, err := strconv.Atoi(args[i])
			if err != nil || v < 1 {
				return nil, fmt.Errorf("%q is not a positive number", args[i])
			}
			out[i] = v
		}
		return out, nil
	}

	switch fields[0] {
	case "play", "p":
		v, err := nums(2)
		if err != nil {
			return ClientMessage{}, err
		}
		msg := ClientMessage{Type: MsgPlay, Hand: v[0] - 1, Slot: v[1] - 1}
		if len(args) > 2 && (args[2] == "w" || args[2] == "warden") {
			msg.Side = "warden"
		}
		return msg, nil
	case "sac", "sacrifice":
		v, err := nums(1)
		if err != nil {
			return ClientMessage{}, err
		}
		return ClientMessage{Type: MsgSacrifice, Hand: v[0] - 1}, nil
	case "end", "e":
		return ClientMessage{Type: MsgEndTurn}, nil
	case "skip":
		return ClientMessage{Type: MsgSkip}, nil
	case "start":
		return ClientMessage{Type: MsgStart}, nil
	case "next", "proceed":
		return ClientMessage{Type: MsgProceed}, nil
	case "level":
		v, err := nums(1)
		if err != nil {
			return ClientMessage{}, err
		}
		return ClientMessage{Type: MsgLevel, Level: v[0]}, nil
	case "menu":
		return ClientMessage{Type: MsgMenu}, nil
	case "quit", "q", "exit":
		return ClientMessage{Type: MsgQuit}, nil
	default:
		return ClientMessage{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

func (c *Client) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Client) render(msg ServerMessage) {
	switch msg.Type {
	case MsgOutcome:
		var sb strings.Builder
		for _, ev := range msg.Events {
			sb.WriteString(formatEvent(ev))
		}
		if msg.State != nil {
			sb.WriteString(FormatState(msg.State))
		}
		c.printf("%s", sb.String())
	case MsgLine:
		c.printf("\nWarden: %s\n", msg.Line)
	case MsgError:
		c.printf("Error: %s\n", msg.Error)
	}
}

func formatEvent(ev EventView) string {
	// Format like the TextLogger
	phase := ev.Phase
	for len(phase) < 16 {
		phase += " "
	}
	return fmt.Sprintf("T%-2d %s| %s\n", ev.Turn, phase, ev.Details)
}

// FormatState renders the table for a terminal.
func FormatState(sv *StateView) string {
	var sb strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&sb, format, args...)
		sb.WriteByte('\n')
	}

	sb.WriteByte('\n')
	line("╔══════════════════════════════════════════════════════╗")
	title := fmt.Sprintf("Chapter %d", sv.Level)
	if sv.Boss != "" {
		title += " (boss: " + sv.Boss + ")"
	}
	line("║  %s  |  %s", title, sv.Status)
	line("║  WARDEN (HP: %d)", sv.OpponentHP)
	line("║  Queue:  %s", formatRow(sv.Queue))
	line("║  Warden: %s", formatRow(sv.OpponentBoard))
	line("║──────────────────────────────────────────────────────")
	line("║  You:    %s", formatRow(sv.PlayerBoard))
	line("║  YOU (HP: %d)  Seeds: %d", sv.PlayerHP, sv.Seeds)
	line("╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Turn %d", sv.Turn)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	}
	line("%s", turnInfo)
	if len(sv.Hand) > 0 {
		sb.WriteString("Hand: ")
		for i, cv := range sv.Hand {
			fmt.Fprintf(&sb, "[%d] %s (%d/%d, %d seeds)  ", i+1, cv.Name, cv.ATK, cv.HP, cv.Cost)
		}
		sb.WriteByte('\n')
	}
	if sv.WardenLine != "" {
		line("Warden: %s", sv.WardenLine)
	}
	return sb.String()
}

func formatRow(row []*CardView) string {
	parts := make([]string, len(row))
	for i, cv := range row {
		parts[i] = formatSlot(cv)
	}
	return strings.Join(parts, " ")
}

func formatSlot(cv *CardView) string {
	if cv == nil {
		return "[ ]"
	}
	s := fmt.Sprintf("%s %d/%d", cv.Name, cv.ATK, cv.HP)
	if cv.Shielded {
		s += " +shield"
	}
	if cv.Stunned {
		s += " +stun"
	}
	return "[" + s + "]"
}
