// panelsim emulates alarm panels against a running receiver: it opens TCP
// connections, sends SIA or Contact ID frames, and reports whether the ACK
// byte came back.
package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	simAddr       string
	simAccount    string
	simProtocol   string
	simCode       string
	simQualifier  string
	simZone       string
	simCount      int
	simInterval   time.Duration
	simAckTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "panelsim",
	Short: "Alarm panel simulator",
	Long: `panelsim emulates SIA and Contact ID alarm panels for testing the
sentryline receiver. It holds a TCP connection open, sends frames, and
waits for the single-byte ACK after each one.`,
	Version: "0.1.0",
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a single alarm frame",
	Example: `  panelsim send --account 1234 --code B --qualifier A --zone 1
  panelsim send --protocol cid --account 1234 --code 131 --qualifier 1 --zone 015`,
	RunE: runSend,
}

var floodCmd = &cobra.Command{
	Use:   "flood",
	Short: "Send a stream of generated frames",
	Long: `Send generated alarm traffic over one connection. With --account the
frames share a fixed account; otherwise each frame gets a random one,
which exercises the receiver's unregistered-panel path.`,
	RunE: runFlood,
}

var scenarioCmd = &cobra.Command{
	Use:   "scenario <file>",
	Short: "Replay a YAML scenario of frames with delays",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenario,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&simAddr, "addr", "127.0.0.1:9999", "receiver address")
	rootCmd.PersistentFlags().DurationVar(&simAckTimeout, "ack-timeout", 5*time.Second, "how long to wait for the ACK byte")

	sendCmd.Flags().StringVar(&simAccount, "account", "1234", "panel account number")
	sendCmd.Flags().StringVar(&simProtocol, "protocol", "sia", "wire protocol: sia or cid")
	sendCmd.Flags().StringVar(&simCode, "code", "B", "event code (1 char for sia, 3 digits for cid)")
	sendCmd.Flags().StringVar(&simQualifier, "qualifier", "A", "qualifier (1 char for sia, 1/3/6 for cid)")
	sendCmd.Flags().StringVar(&simZone, "zone", "1", "zone or user")

	floodCmd.Flags().StringVar(&simAccount, "account", "", "fixed account (empty = random per frame)")
	floodCmd.Flags().StringVar(&simProtocol, "protocol", "sia", "wire protocol: sia or cid")
	floodCmd.Flags().IntVar(&simCount, "count", 100, "number of frames to send")
	floodCmd.Flags().DurationVar(&simInterval, "interval", 50*time.Millisecond, "delay between frames")

	rootCmd.AddCommand(sendCmd, floodCmd, scenarioCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// sendFrame writes one frame and waits for the ACK byte on the same
// connection.
func sendFrame(conn net.Conn, frame []byte) (bool, error) {
	if _, err := conn.Write(frame); err != nil {
		return false, fmt.Errorf("write failed: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(simAckTimeout))
	ack := make([]byte, 1)
	if _, err := conn.Read(ack); err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return false, nil
		}
		return false, fmt.Errorf("read failed: %w", err)
	}
	return ack[0] == 0x06, nil
}

func dial() (net.Conn, error) {
	conn, err := net.DialTimeout("tcp", simAddr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", simAddr, err)
	}
	return conn, nil
}

func runSend(cmd *cobra.Command, _ []string) error {
	frame, err := buildFrame(simProtocol, simAccount, simQualifier, simCode, simZone)
	if err != nil {
		return err
	}

	conn, err := dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	acked, err := sendFrame(conn, frame)
	if err != nil {
		return err
	}

	fmt.Printf("sent %q\n", frame)
	if acked {
		fmt.Println("ACK received")
	} else {
		fmt.Println("no ACK (receiver withheld or timed out)")
	}
	return nil
}

func runFlood(cmd *cobra.Command, _ []string) error {
	conn, err := dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	acked, sent := 0, 0
	for i := 0; i < simCount; i++ {
		frame, err := generateFrame(simProtocol, simAccount)
		if err != nil {
			return err
		}

		ok, err := sendFrame(conn, frame)
		if err != nil {
			return fmt.Errorf("after %d frames: %w", sent, err)
		}
		sent++
		if ok {
			acked++
		}

		if simInterval > 0 {
			time.Sleep(simInterval)
		}
	}

	fmt.Printf("sent %d frames, %d acked\n", sent, acked)
	return nil
}
