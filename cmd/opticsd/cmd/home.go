package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/celestiaorg/optics/pkg/message"
)

func homeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Dispatch messages and commit checkpoints on the local home",
	}
	cmd.AddCommand(
		homeDispatchCmd(),
		homeUpdateCmd(),
		homeRootCmd(),
		homeProofCmd(),
		homeLookupCmd(),
	)
	return cmd
}

func homeDispatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Dispatch a message to --destination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
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

			home, closeHome, err := cctx.openHome()
			if err != nil {
				return err
			}
			defer closeHome()

			index := uint32(home.Count())
			sequence, err := home.Dispatch(cmd.Context(), sender.Bytes(), destination, recipient.Bytes(), body)
			if err != nil {
				return err
			}
			record, err := home.DispatchByDestinationAndSequence(destination, sequence)
			if err != nil {
				return err
			}
			return printJSON(cmd, struct {
				Sequence               uint32        `json:"sequence"`
				LeafIndex              uint32        `json:"leafIndex"`
				DestinationAndSequence uint64        `json:"destinationAndSequence"`
				Leaf                   string        `json:"leaf"`
				Message                hexutil.Bytes `json:"message"`
			}{
				Sequence:               sequence,
				LeafIndex:              index,
				DestinationAndSequence: record.DestinationAndSequence,
				Leaf:                   record.Leaf.Hex(),
				Message:                record.Message,
			})
		},
	}
	cmd.Flags().Uint32(flagDestination, 0, "Destination domain")
	cmd.Flags().String(flagSender, "", "Sender address, up to 32 bytes of hex")
	cmd.Flags().String(flagRecipient, "", "Recipient address, up to 32 bytes of hex")
	addMessageBodyFlags(cmd)
	return cmd
}

func homeUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update [signed-update.json]",
		Short: "Submit a signed update to the local home",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
			update, err := readSignedUpdate(args[0])
			if err != nil {
				return err
			}
			home, closeHome, err := cctx.openHome()
			if err != nil {
				return err
			}
			defer closeHome()
			if err := home.SubmitSignedUpdate(cmd.Context(), update); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), home.CurrentRoot().Hex())
			return err
		},
	}
}

func homeRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "root",
		Short: "Print the committed root, tree root and message count of the home",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
			home, closeHome, err := cctx.openHome()
			if err != nil {
				return err
			}
			defer closeHome()
			return printJSON(cmd, struct {
				Domain        uint32 `json:"domain"`
				State         string `json:"state"`
				CommittedRoot string `json:"committedRoot"`
				TreeRoot      string `json:"treeRoot"`
				Count         uint64 `json:"count"`
			}{
				Domain:        home.Domain(),
				State:         home.State().String(),
				CommittedRoot: home.CurrentRoot().Hex(),
				TreeRoot:      home.Root().Hex(),
				Count:         home.Count(),
			})
		},
	}
}

func homeProofCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proof [leaf-index]",
		Short: "Print the inclusion proof of a leaf against the current tree root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
			index, err := parseUint32(args[0])
			if err != nil {
				return fmt.Errorf("leaf index: %w", err)
			}
			home, closeHome, err := cctx.openHome()
			if err != nil {
				return err
			}
			defer closeHome()
			proof, err := home.Proof(index)
			if err != nil {
				return err
			}
			return writeJSONOrPrint(cmd, proof)
		},
	}
	cmd.Flags().String(flagOutput, "", "Write the proof to this file instead of stdout")
	return cmd
}

func homeLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [destination] [sequence]",
		Short: "Print the message dispatched to destination with sequence",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
			destination, err := parseUint32(args[0])
			if err != nil {
				return fmt.Errorf("destination: %w", err)
			}
			sequence, err := parseUint32(args[1])
			if err != nil {
				return fmt.Errorf("sequence: %w", err)
			}
			home, closeHome, err := cctx.openHome()
			if err != nil {
				return err
			}
			defer closeHome()
			record, err := home.DispatchByDestinationAndSequence(destination, sequence)
			if err != nil {
				return err
			}
			return printJSON(cmd, struct {
				Leaf          string        `json:"leaf"`
				LeafIndex     uint32        `json:"leafIndex"`
				CommittedRoot string        `json:"committedRoot"`
				Message       hexutil.Bytes `json:"message"`
			}{
				Leaf:          record.Leaf.Hex(),
				LeafIndex:     record.LeafIndex,
				CommittedRoot: record.CommittedRoot.Hex(),
				Message:       record.Message,
			})
		},
	}
}
