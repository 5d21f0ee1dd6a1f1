package migration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	signer      = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	finalHolder = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	stranger    = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	contract    = common.HexToAddress("0x00000000000000000000000000000000000000c1")
)

// fakeLedger is an in-memory CapabilityLedger. Mutations take effect when awaited.
type fakeLedger struct {
	mu sync.Mutex

	roles map[common.Hash]map[common.Address]bool
	owner common.Address

	submitErr error
	awaitErr  error
	// awaitBlocks makes Await wait for ctx to be done.
	awaitBlocks bool
	// dropGrants makes grants settle without changing state.
	dropGrants bool
	// afterGrant runs after a grant took effect.
	afterGrant func(l *fakeLedger)
	// readFailures fails that many reads before answering.
	readFailures int

	pending   map[string]func()
	mutations []string
	reads     int
	nonce     int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		roles:   map[common.Hash]map[common.Address]bool{},
		pending: map[string]func(){},
	}
}

func (l *fakeLedger) set(role common.Hash, holder common.Address, held bool) {
	if l.roles[role] == nil {
		l.roles[role] = map[common.Address]bool{}
	}
	l.roles[role][holder] = held
}

func (l *fakeLedger) has(role common.Hash, holder common.Address) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.roles[role][holder]
}

func (l *fakeLedger) read() error {
	l.reads++
	if l.readFailures > 0 {
		l.readFailures--
		return errors.New("rpc unavailable")
	}

	return nil
}

func (l *fakeLedger) HasCapability(_ context.Context, role common.Hash, holder common.Address) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.read(); err != nil {
		return false, err
	}

	return l.roles[role][holder], nil
}

func (l *fakeLedger) CurrentOwner(context.Context) (common.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.read(); err != nil {
		return common.Address{}, err
	}

	return l.owner, nil
}

func (l *fakeLedger) submit(what string, effect func()) (OperationHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.submitErr != nil {
		return OperationHandle{}, l.submitErr
	}
	l.nonce++
	ref := fmt.Sprintf("0x%064x", l.nonce)
	l.pending[ref] = effect
	l.mutations = append(l.mutations, what)

	return OperationHandle{Ref: ref, Description: what}, nil
}

func (l *fakeLedger) Grant(_ context.Context, role common.Hash, holder common.Address) (OperationHandle, error) {
	return l.submit("grant "+holder.Hex(), func() {
		if l.dropGrants {
			return
		}
		l.set(role, holder, true)
		if l.afterGrant != nil {
			l.afterGrant(l)
		}
	})
}

func (l *fakeLedger) Revoke(_ context.Context, role common.Hash, holder common.Address) (OperationHandle, error) {
	return l.submit("revoke "+holder.Hex(), func() {
		l.set(role, holder, false)
	})
}

func (l *fakeLedger) TransferOwnership(_ context.Context, holder common.Address) (OperationHandle, error) {
	return l.submit("transfer "+holder.Hex(), func() {
		if !l.dropGrants {
			l.owner = holder
		}
	})
}

func (l *fakeLedger) Await(ctx context.Context, handle OperationHandle) error {
	if l.awaitBlocks {
		<-ctx.Done()
		return ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.awaitErr != nil {
		return l.awaitErr
	}
	effect, ok := l.pending[handle.Ref]
	if !ok {
		return fmt.Errorf("unknown operation %s", handle.Ref)
	}
	delete(l.pending, handle.Ref)
	effect()

	return nil
}

func (l *fakeLedger) mutationLog() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.mutations...)
}

// preflightLedger adds a Preflight check to a fakeLedger.
type preflightLedger struct {
	*fakeLedger
	err error
}

func (l preflightLedger) Preflight(context.Context) error {
	return l.err
}

// scriptedGate answers with decisions in order and Proceed once they run out.
type scriptedGate struct {
	mu        sync.Mutex
	decisions []Decision
	err       error
	asked     []string
	// onApprove runs before answering the n-th request, counting from 1.
	onApprove func(n int)
}

func (g *scriptedGate) Approve(_ context.Context, description string) (Decision, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.asked = append(g.asked, description)
	if g.onApprove != nil {
		g.onApprove(len(g.asked))
	}
	if g.err != nil {
		return Abort, g.err
	}
	if len(g.decisions) == 0 {
		return Proceed, nil
	}
	d := g.decisions[0]
	g.decisions = g.decisions[1:]

	return d, nil
}
