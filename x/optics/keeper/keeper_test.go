package keeper_test

import (
	"context"
	"errors"
	"math"
	"testing"

	dbm "github.com/cosmos/cosmos-db"
	ethcmn "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/celestiaorg/optics/pkg/merkle"
	"github.com/celestiaorg/optics/pkg/message"
	"github.com/celestiaorg/optics/x/optics/keeper"
	"github.com/celestiaorg/optics/x/optics/types"
	"github.com/celestiaorg/optics/x/optics/updater"
)

const (
	homeDomain  = uint32(1000)
	localDomain = uint32(2000)
)

var (
	sender    = ethcmn.HexToAddress("0x1111111111111111111111111111111111111111").Bytes()
	recipient = ethcmn.HexToAddress("0x2222222222222222222222222222222222222222").Bytes()
)

type KeeperTestSuite struct {
	suite.Suite

	ctx       context.Context
	homeDB    dbm.DB
	replicaDB dbm.DB
	updater   updater.Updater
	events    *types.EventRecorder
	metrics   *keeper.Metrics
	delivered []message.Message
	handleErr error

	home    *keeper.Home
	replica *keeper.Replica
}

func TestKeeperTestSuite(t *testing.T) {
	suite.Run(t, new(KeeperTestSuite))
}

func (suite *KeeperTestSuite) SetupTest() {
	key, err := ethcrypto.GenerateKey()
	suite.Require().NoError(err)
	suite.updater, err = updater.NewUpdater(key, homeDomain)
	suite.Require().NoError(err)

	suite.ctx = context.Background()
	suite.homeDB = dbm.NewMemDB()
	suite.replicaDB = dbm.NewMemDB()
	suite.events = &types.EventRecorder{}
	suite.metrics = keeper.NewMetrics(prometheus.NewRegistry())
	suite.delivered = nil
	suite.handleErr = nil

	suite.home = suite.openHome()
	suite.replica = suite.openReplica()
}

func (suite *KeeperTestSuite) openHome() *keeper.Home {
	home, err := keeper.NewHome(suite.homeDB, homeDomain, suite.updater.Address(),
		keeper.WithEventSink(suite.events),
		keeper.WithMetrics(suite.metrics),
	)
	suite.Require().NoError(err)
	return home
}

func (suite *KeeperTestSuite) openReplica() *keeper.Replica {
	handler := types.MessageHandlerFunc(func(_ context.Context, msg message.Message) error {
		suite.delivered = append(suite.delivered, msg)
		return suite.handleErr
	})
	replica, err := keeper.NewReplica(suite.replicaDB, localDomain, homeDomain, suite.updater.Address(), ethcmn.Hash{},
		keeper.WithEventSink(suite.events),
		keeper.WithMetrics(suite.metrics),
		keeper.WithMessageHandler(handler),
	)
	suite.Require().NoError(err)
	return replica
}

func (suite *KeeperTestSuite) dispatch(destination uint32, body string) (message.Message, merkle.Proof) {
	index := uint32(suite.home.Count())
	sequence, err := suite.home.Dispatch(suite.ctx, sender, destination, recipient, []byte(body))
	suite.Require().NoError(err)
	record, err := suite.home.DispatchByDestinationAndSequence(destination, sequence)
	suite.Require().NoError(err)
	suite.Require().Equal(index, record.LeafIndex)
	msg, err := record.Decode()
	suite.Require().NoError(err)
	proof, err := suite.home.Proof(index)
	suite.Require().NoError(err)
	return msg, proof
}

// relay signs the suggested update and submits it to the home and replica.
func (suite *KeeperTestSuite) relay() types.SignedUpdate {
	oldRoot, newRoot, ok := suite.home.SuggestUpdate()
	suite.Require().True(ok)
	update, err := suite.updater.SignUpdate(oldRoot, newRoot)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.home.SubmitSignedUpdate(suite.ctx, update))
	suite.Require().NoError(suite.replica.SubmitSignedUpdate(suite.ctx, update))
	return update
}

func (suite *KeeperTestSuite) TestDispatchAssignsSequencesPerDestination() {
	for want := uint32(0); want < 3; want++ {
		sequence, err := suite.home.Dispatch(suite.ctx, sender, localDomain, recipient, []byte("hello"))
		suite.Require().NoError(err)
		suite.Require().Equal(want, sequence)
	}
	sequence, err := suite.home.Dispatch(suite.ctx, sender, 3000, recipient, []byte("hello"))
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(0), sequence)
	suite.Require().Equal(uint64(4), suite.home.Count())

	record, err := suite.home.DispatchByDestinationAndSequence(localDomain, 1)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(localDomain)<<32|1, record.DestinationAndSequence)
	suite.Require().Equal(uint32(1), record.LeafIndex)
	suite.Require().Equal(ethcmn.Hash{}, record.CommittedRoot)
	suite.Require().Equal(message.Leaf(record.Message), record.Leaf)

	_, err = suite.home.DispatchByDestinationAndSequence(localDomain, 3)
	suite.Require().ErrorIs(err, types.ErrDispatchNotFound)

	suite.Require().Len(suite.events.EventsOfType(types.EventTypeDispatch), 4)
	suite.Require().Equal(3.0, testutil.ToFloat64(suite.metrics.Dispatched.WithLabelValues("1000", "2000")))
}

func (suite *KeeperTestSuite) TestDispatchCompoundKey() {
	home, err := keeper.NewHome(dbm.NewMemDB(), 1, suite.updater.Address())
	suite.Require().NoError(err)
	sequence, err := home.Dispatch(suite.ctx, sender, 2, recipient, []byte("hi"))
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(0), sequence)

	record, err := home.DispatchByDestinationAndSequence(2, 0)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(8589934592), record.DestinationAndSequence)
}

func (suite *KeeperTestSuite) TestDispatchRejectsInvalidInput() {
	_, err := suite.home.Dispatch(suite.ctx, sender, localDomain, recipient, make([]byte, message.MaxBodyBytes+1))
	suite.Require().ErrorIs(err, types.ErrMessageTooLong)

	_, err = suite.home.Dispatch(suite.ctx, sender, math.MaxUint32, recipient, nil)
	suite.Require().ErrorIs(err, types.ErrInvalidDomain)

	_, err = suite.home.Dispatch(suite.ctx, make([]byte, 33), localDomain, recipient, nil)
	suite.Require().ErrorIs(err, types.ErrInvalidMessage)

	suite.Require().Equal(uint64(0), suite.home.Count())

	sequence, err := suite.home.Dispatch(suite.ctx, sender, localDomain, recipient, make([]byte, message.MaxBodyBytes))
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(0), sequence)
}

func (suite *KeeperTestSuite) TestDispatchSequenceOverflow() {
	suite.dispatch(localDomain, "hello")
	root := suite.home.Root()
	suite.Require().NoError(suite.homeDB.Set(types.GetSequenceKey(localDomain), types.UInt32Bytes(math.MaxUint32)))
	suite.events = &types.EventRecorder{}
	home := suite.openHome()

	_, err := home.Dispatch(suite.ctx, sender, localDomain, recipient, []byte("overflow"))
	suite.Require().ErrorIs(err, types.ErrSequenceOverflow)
	suite.Require().Equal(types.ErrorClassValidation, types.ClassifyError(err))

	suite.Require().Equal(uint64(1), home.Count())
	suite.Require().Equal(root, home.Root())
	suite.Require().Empty(suite.events.EventsOfType(types.EventTypeDispatch))
	written, err := suite.homeDB.Has(types.GetLeafKey(1))
	suite.Require().NoError(err)
	suite.Require().False(written)
	bz, err := suite.homeDB.Get(types.GetSequenceKey(localDomain))
	suite.Require().NoError(err)
	suite.Require().Equal(types.UInt32Bytes(math.MaxUint32), bz)

	sequence, err := home.Dispatch(suite.ctx, sender, localDomain+1, recipient, nil)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(0), sequence)
}

func (suite *KeeperTestSuite) TestSuggestUpdate() {
	_, _, ok := suite.home.SuggestUpdate()
	suite.Require().False(ok)

	suite.dispatch(localDomain, "one")
	oldRoot, newRoot, ok := suite.home.SuggestUpdate()
	suite.Require().True(ok)
	suite.Require().Equal(ethcmn.Hash{}, oldRoot)
	suite.Require().Equal(suite.home.Root(), newRoot)

	suite.relay()
	_, _, ok = suite.home.SuggestUpdate()
	suite.Require().False(ok)
}

func (suite *KeeperTestSuite) TestSubmitSignedUpdate() {
	suite.dispatch(localDomain, "one")
	update := suite.relay()
	suite.Require().Equal(update.NewRoot, suite.home.CurrentRoot())
	suite.Require().Equal(update.NewRoot, suite.replica.CurrentRoot())

	confirmed, err := suite.replica.IsConfirmedRoot(update.NewRoot)
	suite.Require().NoError(err)
	suite.Require().True(confirmed)

	stored, err := suite.replica.SignedUpdate(update.OldRoot)
	suite.Require().NoError(err)
	suite.Require().Equal(update, stored)

	// replaying the same update no longer extends the current root
	err = suite.home.SubmitSignedUpdate(suite.ctx, update)
	suite.Require().ErrorIs(err, types.ErrStaleRoot)
	err = suite.replica.SubmitSignedUpdate(suite.ctx, update)
	suite.Require().ErrorIs(err, types.ErrStaleRoot)

	other, err := ethcrypto.GenerateKey()
	suite.Require().NoError(err)
	forger, err := updater.NewUpdater(other, homeDomain)
	suite.Require().NoError(err)
	forged, err := forger.SignUpdate(update.NewRoot, ethcmn.HexToHash("0x01"))
	suite.Require().NoError(err)
	err = suite.replica.SubmitSignedUpdate(suite.ctx, forged)
	suite.Require().ErrorIs(err, types.ErrInvalidSignature)
	suite.Require().Equal(update.NewRoot, suite.replica.CurrentRoot())

	_, err = suite.replica.SignedUpdate(update.NewRoot)
	suite.Require().ErrorIs(err, types.ErrUpdateNotFound)

	suite.Require().Len(suite.events.EventsOfType(types.EventTypeUpdate), 2)
	suite.Require().Equal(1.0, testutil.ToFloat64(suite.metrics.Updates.WithLabelValues("replica", "1000", "accepted")))
	suite.Require().Equal(2.0, testutil.ToFloat64(suite.metrics.Updates.WithLabelValues("replica", "1000", "rejected")))
}

func (suite *KeeperTestSuite) TestUpdateSignedForOtherDomain() {
	wrongDomain, err := updater.NewUpdater(nil, homeDomain)
	suite.Require().ErrorIs(err, types.ErrInvalidKey)
	suite.Require().Equal(updater.Updater{}, wrongDomain)

	key, err := ethcrypto.GenerateKey()
	suite.Require().NoError(err)
	u, err := updater.NewUpdater(key, localDomain)
	suite.Require().NoError(err)
	replica, err := keeper.NewReplica(dbm.NewMemDB(), localDomain, homeDomain, u.Address(), ethcmn.Hash{})
	suite.Require().NoError(err)

	update, err := u.SignUpdate(ethcmn.Hash{}, ethcmn.HexToHash("0x01"))
	suite.Require().NoError(err)
	err = replica.SubmitSignedUpdate(suite.ctx, update)
	suite.Require().ErrorIs(err, types.ErrInvalidSignature)
}

func (suite *KeeperTestSuite) TestProveThenProcess() {
	msg, proof := suite.dispatch(localDomain, "hello")
	suite.relay()

	status, err := suite.replica.MessageStatus(msg.Leaf())
	suite.Require().NoError(err)
	suite.Require().Equal(types.MessageStatusNone, status)

	suite.Require().NoError(suite.replica.Prove(suite.ctx, proof))
	status, err = suite.replica.MessageStatus(msg.Leaf())
	suite.Require().NoError(err)
	suite.Require().Equal(types.MessageStatusPending, status)

	// proving a pending leaf again is a no-op
	suite.Require().NoError(suite.replica.Prove(suite.ctx, proof))
	suite.Require().Len(suite.events.EventsOfType(types.EventTypeProve), 1)

	suite.Require().NoError(suite.replica.Process(suite.ctx, msg, proof))
	status, err = suite.replica.MessageStatus(msg.Leaf())
	suite.Require().NoError(err)
	suite.Require().Equal(types.MessageStatusProcessed, status)
	suite.Require().Len(suite.delivered, 1)
	suite.Require().Equal([]byte("hello"), suite.delivered[0].Body)
	suite.Require().Equal(homeDomain, suite.delivered[0].Origin)

	err = suite.replica.Process(suite.ctx, msg, proof)
	suite.Require().ErrorIs(err, types.ErrAlreadyProcessed)
	err = suite.replica.Prove(suite.ctx, proof)
	suite.Require().ErrorIs(err, types.ErrAlreadyProcessed)
	err = suite.replica.ProveAndProcess(suite.ctx, msg, proof)
	suite.Require().ErrorIs(err, types.ErrAlreadyProcessed)
	suite.Require().Len(suite.delivered, 1)

	processed := suite.events.EventsOfType(types.EventTypeProcess)
	suite.Require().Len(processed, 1)
	suite.Require().Equal(types.EventProcess{Leaf: msg.Leaf(), Success: true}, processed[0])
}

func (suite *KeeperTestSuite) TestProcessRequiresPending() {
	msg, proof := suite.dispatch(localDomain, "hello")
	suite.relay()

	err := suite.replica.Process(suite.ctx, msg, proof)
	suite.Require().ErrorIs(err, types.ErrNotPending)
	suite.Require().Empty(suite.delivered)
}

func (suite *KeeperTestSuite) TestProveAndProcess() {
	msg, proof := suite.dispatch(localDomain, "hello")
	suite.relay()

	suite.Require().NoError(suite.replica.ProveAndProcess(suite.ctx, msg, proof))
	status, err := suite.replica.MessageStatus(msg.Leaf())
	suite.Require().NoError(err)
	suite.Require().Equal(types.MessageStatusProcessed, status)
	suite.Require().Len(suite.delivered, 1)
	suite.Require().Len(suite.events.EventsOfType(types.EventTypeProve), 1)
}

func (suite *KeeperTestSuite) TestProveRejectsUnconfirmedRoot() {
	_, proof := suite.dispatch(localDomain, "hello")

	err := suite.replica.Prove(suite.ctx, proof)
	suite.Require().ErrorIs(err, types.ErrInvalidProof)

	suite.relay()
	tampered := proof
	tampered.Branch = append([]ethcmn.Hash(nil), proof.Branch...)
	tampered.Branch[0] = ethcmn.HexToHash("0xdead")
	err = suite.replica.Prove(suite.ctx, tampered)
	suite.Require().ErrorIs(err, types.ErrInvalidProof)

	malformed := proof
	malformed.Branch = proof.Branch[:10]
	err = suite.replica.Prove(suite.ctx, malformed)
	suite.Require().ErrorIs(err, types.ErrInvalidProof)

	suite.Require().NoError(suite.replica.Prove(suite.ctx, proof))
}

func (suite *KeeperTestSuite) TestProvePendingLeafChecksProof() {
	_, proof := suite.dispatch(localDomain, "hello")
	suite.relay()
	suite.Require().NoError(suite.replica.Prove(suite.ctx, proof))

	tampered := proof
	tampered.Branch = append([]ethcmn.Hash(nil), proof.Branch...)
	tampered.Branch[3] = ethcmn.HexToHash("0xbeef")
	err := suite.replica.Prove(suite.ctx, tampered)
	suite.Require().ErrorIs(err, types.ErrInvalidProof)

	suite.Require().NoError(suite.replica.Prove(suite.ctx, proof))
	status, err := suite.replica.MessageStatus(proof.Leaf)
	suite.Require().NoError(err)
	suite.Require().Equal(types.MessageStatusPending, status)
	suite.Require().Len(suite.events.EventsOfType(types.EventTypeProve), 1)
}

func (suite *KeeperTestSuite) TestProcessRejectsMismatchedMessage() {
	msg, proof := suite.dispatch(localDomain, "hello")
	elsewhere, elsewhereProof := suite.dispatch(3000, "elsewhere")
	suite.relay()

	err := suite.replica.ProveAndProcess(suite.ctx, elsewhere, elsewhereProof)
	suite.Require().ErrorIs(err, types.ErrInvalidMessage)

	altered := msg
	altered.Body = []byte("goodbye")
	err = suite.replica.ProveAndProcess(suite.ctx, altered, proof)
	suite.Require().ErrorIs(err, types.ErrInvalidProof)

	foreign := msg
	foreign.Origin = 7
	err = suite.replica.ProveAndProcess(suite.ctx, foreign, proof)
	suite.Require().ErrorIs(err, types.ErrInvalidMessage)
	suite.Require().Empty(suite.delivered)
}

func (suite *KeeperTestSuite) TestProofAgainstEarlierRoot() {
	msg, proof := suite.dispatch(localDomain, "first")
	suite.relay()
	suite.dispatch(localDomain, "second")
	suite.relay()

	suite.Require().NotEqual(suite.replica.CurrentRoot(), mustRoot(suite.T(), proof))
	suite.Require().NoError(suite.replica.ProveAndProcess(suite.ctx, msg, proof))
}

func (suite *KeeperTestSuite) TestHandlerFailureStillProcesses() {
	suite.handleErr = errors.New("recipient reverted")
	msg, proof := suite.dispatch(localDomain, "hello")
	suite.relay()

	suite.Require().NoError(suite.replica.ProveAndProcess(suite.ctx, msg, proof))
	status, err := suite.replica.MessageStatus(msg.Leaf())
	suite.Require().NoError(err)
	suite.Require().Equal(types.MessageStatusProcessed, status)

	processed := suite.events.EventsOfType(types.EventTypeProcess)
	suite.Require().Len(processed, 1)
	suite.Require().False(processed[0].(types.EventProcess).Success)

	err = suite.replica.ProveAndProcess(suite.ctx, msg, proof)
	suite.Require().ErrorIs(err, types.ErrAlreadyProcessed)
}

func (suite *KeeperTestSuite) TestDoubleUpdateFailsInstance() {
	suite.dispatch(localDomain, "hello")
	oldRoot := suite.home.CurrentRoot()
	left, err := suite.updater.SignUpdate(oldRoot, ethcmn.HexToHash("0x0a"))
	suite.Require().NoError(err)
	right, err := suite.updater.SignUpdate(oldRoot, ethcmn.HexToHash("0x0b"))
	suite.Require().NoError(err)

	for _, chain := range []keeper.Chain{suite.home, suite.replica} {
		err := chain.DoubleUpdate(suite.ctx, left, left)
		suite.Require().ErrorIs(err, types.ErrInvalidDoubleUpdate)
		suite.Require().Equal(types.StateActive, chain.State())

		suite.Require().NoError(chain.DoubleUpdate(suite.ctx, left, right))
		suite.Require().Equal(types.StateFailed, chain.State())

		err = chain.DoubleUpdate(suite.ctx, left, right)
		suite.Require().ErrorIs(err, types.ErrChainFailed)
		err = chain.SubmitSignedUpdate(suite.ctx, left)
		suite.Require().ErrorIs(err, types.ErrChainFailed)
	}

	_, err = suite.home.Dispatch(suite.ctx, sender, localDomain, recipient, nil)
	suite.Require().ErrorIs(err, types.ErrChainFailed)

	proof, found, err := suite.replica.DoubleUpdateProof()
	suite.Require().NoError(err)
	suite.Require().True(found)
	suite.Require().Equal(types.DoubleUpdate{Left: left, Right: right}, proof)

	suite.Require().Len(suite.events.EventsOfType(types.EventTypeDoubleUpdate), 2)
	suite.Require().Equal(1.0, testutil.ToFloat64(suite.metrics.DoubleUpdates.WithLabelValues("home", "1000")))
}

func (suite *KeeperTestSuite) TestDoubleUpdateAfterRootAdvanced() {
	msg, proof := suite.dispatch(localDomain, "hello")
	first := suite.relay()
	suite.dispatch(localDomain, "second")
	suite.relay()

	conflicting, err := suite.updater.SignUpdate(first.OldRoot, ethcmn.HexToHash("0x0c"))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.replica.DoubleUpdate(suite.ctx, first, conflicting))

	err = suite.replica.ProveAndProcess(suite.ctx, msg, proof)
	suite.Require().ErrorIs(err, types.ErrChainFailed)
	err = suite.replica.Prove(suite.ctx, proof)
	suite.Require().ErrorIs(err, types.ErrChainFailed)
}

func (suite *KeeperTestSuite) TestDoubleUpdateFromOtherSigner() {
	key, err := ethcrypto.GenerateKey()
	suite.Require().NoError(err)
	other, err := updater.NewUpdater(key, homeDomain)
	suite.Require().NoError(err)
	left, err := other.SignUpdate(ethcmn.Hash{}, ethcmn.HexToHash("0x0a"))
	suite.Require().NoError(err)
	right, err := other.SignUpdate(ethcmn.Hash{}, ethcmn.HexToHash("0x0b"))
	suite.Require().NoError(err)

	err = suite.replica.DoubleUpdate(suite.ctx, left, right)
	suite.Require().ErrorIs(err, types.ErrInvalidSignature)
	suite.Require().Equal(types.StateActive, suite.replica.State())
}

func (suite *KeeperTestSuite) TestReopenRestoresState() {
	msg, proof := suite.dispatch(localDomain, "hello")
	update := suite.relay()
	suite.Require().NoError(suite.replica.Prove(suite.ctx, proof))
	root := suite.home.Root()

	home := suite.openHome()
	suite.Require().Equal(uint64(1), home.Count())
	suite.Require().Equal(root, home.Root())
	suite.Require().Equal(update.NewRoot, home.CurrentRoot())
	sequence, err := home.Dispatch(suite.ctx, sender, localDomain, recipient, nil)
	suite.Require().NoError(err)
	suite.Require().Equal(uint32(1), sequence)

	replica := suite.openReplica()
	suite.Require().Equal(update.NewRoot, replica.CurrentRoot())
	status, err := replica.MessageStatus(msg.Leaf())
	suite.Require().NoError(err)
	suite.Require().Equal(types.MessageStatusPending, status)
	suite.Require().NoError(replica.Process(suite.ctx, msg, proof))

	updates, err := replica.SignedUpdates()
	suite.Require().NoError(err)
	suite.Require().Equal([]types.SignedUpdate{update}, updates)
}

func (suite *KeeperTestSuite) TestSignedUpdatesExcludeFraudProof() {
	suite.dispatch(localDomain, "hello")
	update := suite.relay()
	conflicting, err := suite.updater.SignUpdate(update.OldRoot, ethcmn.HexToHash("0x0d"))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.home.DoubleUpdate(suite.ctx, update, conflicting))

	updates, err := suite.home.SignedUpdates()
	suite.Require().NoError(err)
	suite.Require().Equal([]types.SignedUpdate{update}, updates)

	_, found, err := suite.home.DoubleUpdateProof()
	suite.Require().NoError(err)
	suite.Require().True(found)
}

func (suite *KeeperTestSuite) TestNewReplicaValidation() {
	_, err := keeper.NewReplica(dbm.NewMemDB(), homeDomain, homeDomain, suite.updater.Address(), ethcmn.Hash{})
	suite.Require().ErrorIs(err, types.ErrInvalidDomain)

	_, err = keeper.NewReplica(dbm.NewMemDB(), localDomain, homeDomain, ethcmn.Address{}, ethcmn.Hash{})
	suite.Require().ErrorIs(err, types.ErrInvalidKey)

	initial := ethcmn.HexToHash("0x1234")
	replica, err := keeper.NewReplica(dbm.NewMemDB(), localDomain, homeDomain, suite.updater.Address(), initial)
	suite.Require().NoError(err)
	suite.Require().Equal(initial, replica.CurrentRoot())
	confirmed, err := replica.IsConfirmedRoot(initial)
	suite.Require().NoError(err)
	suite.Require().True(confirmed)
	suite.Require().Equal(localDomain, replica.LocalDomain())
	suite.Require().Equal(homeDomain, replica.Domain())
}

func mustRoot(t *testing.T, proof merkle.Proof) ethcmn.Hash {
	t.Helper()
	root, err := proof.Root()
	require.NoError(t, err)
	return root
}
