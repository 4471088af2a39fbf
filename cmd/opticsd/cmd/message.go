package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/celestiaorg/optics/pkg/message"
	"github.com/celestiaorg/optics/x/optics/types"
)

const (
	flagOrigin      = "origin"
	flagSender      = "sender"
	flagSequence    = "sequence"
	flagDestination = "destination"
	flagRecipient   = "recipient"
	flagBody        = "body"
	flagBodyHex     = "body-hex"
	flagSplit       = "split"
)

type encodedMessage struct {
	Message hexutil.Bytes `json:"message"`
	Leaf    string        `json:"leaf"`
}

func messageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Message encoding utilities",
	}
	cmd.AddCommand(messageEncodeCmd(), messageDecodeCmd())
	return cmd
}

func addMessageBodyFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagBody, "", "Message body as a string")
	cmd.Flags().String(flagBodyHex, "", "Message body as hex, takes precedence over --body")
}

func parseMessageBody(cmd *cobra.Command) ([]byte, error) {
	if cmd.Flags().Changed(flagBodyHex) {
		raw, _ := cmd.Flags().GetString(flagBodyHex)
		return parseHex(raw)
	}
	body, _ := cmd.Flags().GetString(flagBody)
	return []byte(body), nil
}

func messageEncodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a message and print its leaf",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			origin, _ := cmd.Flags().GetUint32(flagOrigin)
			sequence, _ := cmd.Flags().GetUint32(flagSequence)
			destination, _ := cmd.Flags().GetUint32(flagDestination)
			rawSender, _ := cmd.Flags().GetString(flagSender)
			rawRecipient, _ := cmd.Flags().GetString(flagRecipient)

			sender, err := message.ParseAddress(rawSender)
			if err != nil {
				return fmt.Errorf("sender: %w", err)
			}
			recipient, err := message.ParseAddress(rawRecipient)
			if err != nil {
				return fmt.Errorf("recipient: %w", err)
			}
			body, err := parseMessageBody(cmd)
			if err != nil {
				return fmt.Errorf("body: %w", err)
			}
			encoded := message.Encode(origin, sender, sequence, destination, recipient, body)
			return printJSON(cmd, encodedMessage{Message: encoded, Leaf: message.Leaf(encoded).Hex()})
		},
	}
	cmd.Flags().Uint32(flagOrigin, 0, "Origin domain")
	cmd.Flags().String(flagSender, "", "Sender address, up to 32 bytes of hex")
	cmd.Flags().Uint32(flagSequence, 0, "Sequence of the message on its destination")
	cmd.Flags().Uint32(flagDestination, 0, "Destination domain")
	cmd.Flags().String(flagRecipient, "", "Recipient address, up to 32 bytes of hex")
	addMessageBodyFlags(cmd)
	return cmd
}

func messageDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [message-hex]",
		Short: "Decode an encoded message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bz, err := parseHex(args[0])
			if err != nil {
				return err
			}
			msg, err := message.Decode(bz)
			if err != nil {
				return err
			}
			return printJSON(cmd, struct {
				Origin      uint32        `json:"origin"`
				Sender      string        `json:"sender"`
				Sequence    uint32        `json:"sequence"`
				Destination uint32        `json:"destination"`
				Recipient   string        `json:"recipient"`
				Body        hexutil.Bytes `json:"body"`
				Leaf        string        `json:"leaf"`
			}{
				Origin:      msg.Origin,
				Sender:      msg.Sender.Hex(),
				Sequence:    msg.Sequence,
				Destination: msg.Destination,
				Recipient:   msg.Recipient.Hex(),
				Body:        msg.Body,
				Leaf:        msg.Leaf().Hex(),
			})
		},
	}
}

func indexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [destination] [sequence] | --split [key]",
		Short: "Compute the destination and sequence index of a message",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			split, _ := cmd.Flags().GetBool(flagSplit)
			if split {
				if len(args) != 1 {
					return fmt.Errorf("--%s takes exactly one key", flagSplit)
				}
				var key uint64
				if _, err := fmt.Sscan(args[0], &key); err != nil {
					return fmt.Errorf("invalid key %q: %w", args[0], err)
				}
				destination, sequence := types.SplitDestinationAndSequence(key)
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d %d\n", destination, sequence)
				return err
			}
			if len(args) != 2 {
				return fmt.Errorf("expected destination and sequence")
			}
			destination, err := parseUint32(args[0])
			if err != nil {
				return fmt.Errorf("destination: %w", err)
			}
			sequence, err := parseUint32(args[1])
			if err != nil {
				return fmt.Errorf("sequence: %w", err)
			}
			key, err := types.DestinationAndSequence(destination, sequence)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
			return err
		},
	}
	cmd.Flags().Bool(flagSplit, false, "Split a key into its destination and sequence")
	return cmd
}
