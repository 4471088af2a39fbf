package cmd

import (
	"fmt"
	"os"

	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

const (
	flagHomeDomain    = "home-domain"
	flagReplicaDomain = "replica-domain"
	flagUpdater       = "updater"
	flagForce         = "force"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file to the home directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cctx, err := getClientContext(cmd)
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool(flagForce)
			if _, err := os.Stat(configFile(cctx.homeDir)); err == nil && !force {
				return fmt.Errorf("config file %s already exists, use --%s to overwrite", configFile(cctx.homeDir), flagForce)
			}

			cfg := cctx.config
			cfg.Updater.Key = ""
			if cmd.Flags().Changed(flagHomeDomain) {
				cfg.Home.Domain, _ = cmd.Flags().GetUint32(flagHomeDomain)
			}
			if cmd.Flags().Changed(flagReplicaDomain) {
				cfg.Replica.Domain, _ = cmd.Flags().GetUint32(flagReplicaDomain)
			}
			if cmd.Flags().Changed(flagUpdater) {
				addr, _ := cmd.Flags().GetString(flagUpdater)
				if !ethcmn.IsHexAddress(addr) {
					return fmt.Errorf("invalid updater address %q", addr)
				}
				cfg.Home.Updater = ethcmn.HexToAddress(addr).Hex()
			}
			if err := cfg.ValidateBasic(); err != nil {
				return err
			}
			if err := WriteConfigFile(cctx.homeDir, cfg); err != nil {
				return err
			}
			cctx.logger.Info("wrote config", "path", configFile(cctx.homeDir))
			return nil
		},
	}
	cmd.Flags().Uint32(flagHomeDomain, DefaultConfig().Home.Domain, "Domain of the home")
	cmd.Flags().Uint32(flagReplicaDomain, DefaultConfig().Replica.Domain, "Local domain of the replica")
	cmd.Flags().String(flagUpdater, "", "Address of the updater allowed to sign checkpoints")
	cmd.Flags().Bool(flagForce, false, "Overwrite an existing config file")
	return cmd
}
