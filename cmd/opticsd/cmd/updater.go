package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/optics/x/optics/keeper"
	"github.com/celestiaorg/optics/x/optics/types"
	"github.com/celestiaorg/optics/x/optics/updater"
)

const (
	flagKey     = "key"
	flagDomain  = "domain"
	flagOldRoot = "old-root"
	flagNewRoot = "new-root"
	flagOutput  = "output"
)

func updaterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updater",
		Short: "Updater key utilities",
	}
	cmd.AddCommand(updaterAddressCmd(), updaterSignCmd())
	return cmd
}

func addUpdaterKeyFlags(cmd *cobra.Command) {
	cmd.Flags().String(flagKey, "", "Hex encoded secp256k1 key of the updater, defaults to OPTICS_UPDATER_KEY")
	cmd.Flags().Uint32(flagDomain, 0, "Home domain, defaults to the configured home domain")
}

// loadUpdater builds the updater from flags, falling back to the config.
func loadUpdater(cmd *cobra.Command, cctx *clientContext) (updater.Updater, error) {
	key, _ := cmd.Flags().GetString(flagKey)
	if key == "" {
		key = cctx.config.Updater.Key
	}
	if key == "" {
		return updater.Updater{}, fmt.Errorf("updater key required: set --%s or %s_UPDATER_KEY", flagKey, EnvPrefix)
	}
	domain := cctx.config.Home.Domain
	if cmd.Flags().Changed(flagDomain) {
		domain, _ = cmd.Flags().GetUint32(flagDomain)
	}
	return updater.NewUpdaterFromHex(key, domain)
}

func updaterAddressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Print the address of the updater key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
			u, err := loadUpdater(cmd, cctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), u.Address().Hex())
			return err
		},
	}
	addUpdaterKeyFlags(cmd)
	return cmd
}

func updaterSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign an update from --old-root to --new-root",
		Long: `Sign an update from --old-root to --new-root. Without roots the update
suggested by the local home is signed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
			u, err := loadUpdater(cmd, cctx)
			if err != nil {
				return err
			}

			rawOld, _ := cmd.Flags().GetString(flagOldRoot)
			rawNew, _ := cmd.Flags().GetString(flagNewRoot)
			oldRoot, err := parseHash(rawOld)
			if err != nil {
				return fmt.Errorf("old root: %w", err)
			}
			newRoot, err := parseHash(rawNew)
			if err != nil {
				return fmt.Errorf("new root: %w", err)
			}
			if rawNew == "" {
				home, closeHome, err := cctx.openHome()
				if err != nil {
					return err
				}
				defer closeHome()
				var ok bool
				oldRoot, newRoot, ok = home.SuggestUpdate()
				if !ok {
					return errors.New("no update to sign")
				}
			}

			update, err := u.SignUpdate(oldRoot, newRoot)
			if err != nil {
				return err
			}
			return writeJSONOrPrint(cmd, update)
		},
	}
	addUpdaterKeyFlags(cmd)
	cmd.Flags().String(flagOldRoot, "", "Root the update extends")
	cmd.Flags().String(flagNewRoot, "", "Root the update commits to")
	cmd.Flags().String(flagOutput, "", "Write the signed update to this file instead of stdout")
	return cmd
}

// writeJSONOrPrint writes v to the --output file, or stdout when unset.
func writeJSONOrPrint(cmd *cobra.Command, v any) error {
	path, _ := cmd.Flags().GetString(flagOutput)
	if path == "" {
		return printJSON(cmd, v)
	}
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, bz, 0o644)
}

func fraudCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fraud",
		Short: "Double update detection and reporting",
	}
	cmd.AddCommand(fraudCheckCmd(), fraudSubmitCmd())
	return cmd
}

func fraudCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [left-update.json] [right-update.json]",
		Short: "Check whether two signed updates prove a double update",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
			proof, err := readDoubleUpdate(args[0], args[1])
			if err != nil {
				return err
			}
			validator, err := cctx.config.UpdaterAddress()
			if err != nil {
				return err
			}
			if err := proof.Validate(cctx.config.Home.Domain, validator); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "double update by %s on root %s\n", validator.Hex(), proof.Left.OldRoot.Hex())
			return err
		},
	}
}

func fraudSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit [left-update.json] [right-update.json]",
		Short: "Submit a double update to the local home and replica",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
			proof, err := readDoubleUpdate(args[0], args[1])
			if err != nil {
				return err
			}
			home, closeHome, err := cctx.openHome()
			if err != nil {
				return err
			}
			defer closeHome()
			replica, closeReplica, err := cctx.openReplica()
			if err != nil {
				return err
			}
			defer closeReplica()

			var errs []error
			for _, chain := range []keeper.Chain{home, replica} {
				err := chain.DoubleUpdate(cmd.Context(), proof.Left, proof.Right)
				if err != nil && !errors.Is(err, types.ErrChainFailed) {
					errs = append(errs, err)
				}
			}
			if err := errors.Join(errs...); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "home %s, replica %s\n", home.State(), replica.State())
			return err
		},
	}
}

func readDoubleUpdate(leftPath, rightPath string) (types.DoubleUpdate, error) {
	left, err := readSignedUpdate(leftPath)
	if err != nil {
		return types.DoubleUpdate{}, err
	}
	right, err := readSignedUpdate(rightPath)
	if err != nil {
		return types.DoubleUpdate{}, err
	}
	return types.DoubleUpdate{Left: left, Right: right}, nil
}
