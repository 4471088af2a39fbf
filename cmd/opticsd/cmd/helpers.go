package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	ethcmn "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/celestiaorg/optics/x/optics/keeper"
	"github.com/celestiaorg/optics/x/optics/types"
)

func (c *clientContext) openDB(name string) (dbm.DB, error) {
	switch c.config.DBBackend {
	case DBBackendMemDB:
		return dbm.NewMemDB(), nil
	case DBBackendGoLevelDB:
		dir := filepath.Join(c.homeDir, "data")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		return dbm.NewGoLevelDB(name, dir, dbm.OptionsMap{})
	default:
		return nil, fmt.Errorf("unknown db backend %q", c.config.DBBackend)
	}
}

func (c *clientContext) keeperOptions(opts ...keeper.Option) []keeper.Option {
	return append([]keeper.Option{
		keeper.WithLogger(c.logger),
		keeper.WithEventSink(eventLogger{logger: c.logger}),
		keeper.WithMetrics(c.metrics),
	}, opts...)
}

// openHome opens the home store. The returned function closes it.
func (c *clientContext) openHome() (*keeper.Home, func(), error) {
	validator, err := c.config.UpdaterAddress()
	if err != nil {
		return nil, nil, err
	}
	db, err := c.openDB("home")
	if err != nil {
		return nil, nil, err
	}
	home, err := keeper.NewHome(db, c.config.Home.Domain, validator, c.keeperOptions()...)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return home, func() { db.Close() }, nil
}

// openReplica opens the store of the replica of the home on the configured
// local domain. The returned function closes it.
func (c *clientContext) openReplica() (*keeper.Replica, func(), error) {
	validator, err := c.config.UpdaterAddress()
	if err != nil {
		return nil, nil, err
	}
	initialRoot, err := parseHash(c.config.Replica.InitialRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("initial root: %w", err)
	}
	db, err := c.openDB("replica-" + strconv.FormatUint(uint64(c.config.Replica.Domain), 10))
	if err != nil {
		return nil, nil, err
	}
	handler := types.MessageHandlerFunc(deliverToLog(c.logger))
	replica, err := keeper.NewReplica(
		db,
		c.config.Replica.Domain,
		c.config.Home.Domain,
		validator,
		initialRoot,
		c.keeperOptions(keeper.WithMessageHandler(handler))...,
	)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return replica, func() { db.Close() }, nil
}

// eventLogger writes committed events to the debug log.
type eventLogger struct {
	logger log.Logger
}

func (e eventLogger) Emit(event types.Event) {
	e.logger.Debug("event", "type", event.EventType(), "event", fmt.Sprintf("%+v", event))
}

func printJSON(cmd *cobra.Command, v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
	return err
}

func readJSONFile(path string, v any) error {
	bz, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(bz, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func readSignedUpdate(path string) (types.SignedUpdate, error) {
	var update types.SignedUpdate
	if err := readJSONFile(path, &update); err != nil {
		return types.SignedUpdate{}, err
	}
	return update, update.ValidateBasic()
}

func parseHash(s string) (ethcmn.Hash, error) {
	if s == "" {
		return ethcmn.Hash{}, nil
	}
	bz, err := parseHex(s)
	if err != nil {
		return ethcmn.Hash{}, err
	}
	if len(bz) != ethcmn.HashLength {
		return ethcmn.Hash{}, fmt.Errorf("hash must be %d bytes, got %d", ethcmn.HashLength, len(bz))
	}
	return ethcmn.BytesToHash(bz), nil
}

func parseHex(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	return hexutil.Decode("0x" + s)
}

func parseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}
