package cmd

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"

	"github.com/celestiaorg/optics/pkg/merkle"
	"github.com/celestiaorg/optics/pkg/message"
)

const flagProve = "prove"

func replicaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replica",
		Short: "Confirm checkpoints and process messages on the local replica",
	}
	cmd.AddCommand(
		replicaUpdateCmd(),
		replicaProveCmd(),
		replicaProcessCmd(),
		replicaStatusCmd(),
	)
	return cmd
}

// deliverToLog is the recipient of messages processed from the command line.
func deliverToLog(logger log.Logger) func(context.Context, message.Message) error {
	return func(_ context.Context, msg message.Message) error {
		logger.Info("delivered message",
			"origin", msg.Origin,
			"sequence", msg.Sequence,
			"recipient", msg.Recipient.Hex(),
			"body_bytes", len(msg.Body),
		)
		return nil
	}
}

func replicaUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update [signed-update.json]",
		Short: "Submit a signed update of the home to the local replica",
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
			replica, closeReplica, err := cctx.openReplica()
			if err != nil {
				return err
			}
			defer closeReplica()
			if err := replica.SubmitSignedUpdate(cmd.Context(), update); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), replica.CurrentRoot().Hex())
			return err
		},
	}
}

func replicaProveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prove [proof.json]",
		Short: "Mark a leaf pending by proving it against a confirmed root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
			var proof merkle.Proof
			if err := readJSONFile(args[0], &proof); err != nil {
				return err
			}
			replica, closeReplica, err := cctx.openReplica()
			if err != nil {
				return err
			}
			defer closeReplica()
			if err := replica.Prove(cmd.Context(), proof); err != nil {
				return err
			}
			status, err := replica.MessageStatus(proof.Leaf)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), status)
			return err
		},
	}
}

func replicaProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [message-hex] [proof.json]",
		Short: "Process a pending message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
			bz, err := parseHex(args[0])
			if err != nil {
				return fmt.Errorf("message: %w", err)
			}
			msg, err := message.Decode(bz)
			if err != nil {
				return err
			}
			var proof merkle.Proof
			if err := readJSONFile(args[1], &proof); err != nil {
				return err
			}
			replica, closeReplica, err := cctx.openReplica()
			if err != nil {
				return err
			}
			defer closeReplica()

			prove, _ := cmd.Flags().GetBool(flagProve)
			if prove {
				err = replica.ProveAndProcess(cmd.Context(), msg, proof)
			} else {
				err = replica.Process(cmd.Context(), msg, proof)
			}
			if err != nil {
				return err
			}
			status, err := replica.MessageStatus(msg.Leaf())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), status)
			return err
		},
	}
	cmd.Flags().Bool(flagProve, false, "Prove and process the message in one step")
	return cmd
}

func replicaStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [leaf]",
		Short: "Print the replica state, or the status of a leaf",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
			replica, closeReplica, err := cctx.openReplica()
			if err != nil {
				return err
			}
			defer closeReplica()

			if len(args) == 0 {
				return printJSON(cmd, struct {
					LocalDomain  uint32 `json:"localDomain"`
					RemoteDomain uint32 `json:"remoteDomain"`
					State        string `json:"state"`
					CurrentRoot  string `json:"currentRoot"`
				}{
					LocalDomain:  replica.LocalDomain(),
					RemoteDomain: replica.Domain(),
					State:        replica.State().String(),
					CurrentRoot:  replica.CurrentRoot().Hex(),
				})
			}
			leaf, err := parseHash(args[0])
			if err != nil {
				return fmt.Errorf("leaf: %w", err)
			}
			status, err := replica.MessageStatus(leaf)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), status)
			return err
		},
	}
}
