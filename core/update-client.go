package core

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyperledger-labs/yui-relay-core/internal/telemetry"
)

// Status is the status of a client
type Status string

const (
	Active  Status = "Active"
	Frozen  Status = "Frozen"
	Expired Status = "Expired"
)

// UpdateClientHandler applies client updates through the capabilities of a ClientContext.
type UpdateClientHandler struct {
	ctx     ClientContext
	chainID string
}

// NewUpdateClientHandler returns a new UpdateClientHandler.
// `chainID` is the ID of the host chain and is only used for logging and tracing.
func NewUpdateClientHandler(chainID string, ctx ClientContext) *UpdateClientHandler {
	return &UpdateClientHandler{ctx: ctx, chainID: chainID}
}

// HandleUpdate verifies `header` against the current state of the client and applies the result.
//
// It fails with ErrClientIsFrozen or ErrClientIsExpired without any effect on the store.
// A verification error is returned as is. If the verification detects misbehaviour,
// only the frozen client state is persisted and a MisbehaviourEvent is emitted.
func (h *UpdateClientHandler) HandleUpdate(ctx context.Context, clientID string, header ClientHeader) error {
	ctx, span := tracer.Start(ctx, "UpdateClientHandler.HandleUpdate",
		WithClientIDAttributes(h.chainID, clientID),
		trace.WithAttributes(AttributeGroup("header", heightAttributes(header.GetHeight())...)...),
	)
	defer span.End()
	logger := GetClientLogger(h.chainID, clientID)

	if locker, ok := h.ctx.(ClientLocker); ok {
		unlock := locker.LockClient(clientID)
		defer unlock()
	}

	result, err := h.handleUpdate(ctx, clientID, header)
	telemetry.ClientUpdateCounter.Add(ctx, 1, telemetry.ClientUpdateAttributes(h.chainID, clientID, result))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "failed to update client", err, "result", result)
		return err
	}
	span.SetAttributes(attribute.String("result", result))
	logger.InfoContext(ctx, "client updated", "result", result, "height", header.GetHeight().String())
	return nil
}

func (h *UpdateClientHandler) handleUpdate(ctx context.Context, clientID string, header ClientHeader) (string, error) {
	clientState, err := h.ctx.GetClientState(ctx, clientID)
	if err != nil {
		return "error", err
	}
	if clientState.IsFrozen() {
		return "frozen", errorsmod.Wrapf(ErrClientIsFrozen, "client %s", clientID)
	}

	consensusState, err := h.ctx.GetLatestConsensusState(ctx, clientID)
	if err != nil {
		return "error", err
	}
	now := h.ctx.HostTimestamp()
	if isExpired(clientState, consensusState, now) {
		return "expired", errorsmod.Wrapf(ErrClientIsExpired,
			"client %s: last updated at %s, trusting period %s, host time %s",
			clientID, consensusState.GetTimestamp(), clientState.GetTrustingPeriod(), now)
	}

	newClientState, newConsensusState, err := h.ctx.CheckHeaderAndUpdateState(ctx, clientID, clientState, header)
	if err != nil {
		return "invalid", err
	}

	if err := h.ctx.SetClientState(ctx, clientID, newClientState); err != nil {
		return "error", err
	}

	height := clienttypes.NewHeight(header.GetHeight().GetRevisionNumber(), header.GetHeight().GetRevisionHeight())
	if newClientState.IsFrozen() {
		telemetry.ClientMisbehaviourCounter.Add(ctx, 1, telemetry.ClientAttributes(h.chainID, clientID))
		h.ctx.EmitEvent(ctx, &MisbehaviourEvent{
			ClientID:   clientID,
			ClientType: newClientState.ClientType(),
			Height:     height,
			Header:     header,
		})
		return "misbehaviour", nil
	}

	if err := h.ctx.SetConsensusState(ctx, clientID, height, newConsensusState); err != nil {
		return "error", err
	}
	h.ctx.EmitEvent(ctx, &UpdateClientEvent{
		ClientID:   clientID,
		ClientType: newClientState.ClientType(),
		Height:     height,
		Header:     header,
	})
	return "updated", nil
}

// ClientStatus returns the status of the client evaluated at the host time.
func (h *UpdateClientHandler) ClientStatus(ctx context.Context, clientID string) (Status, error) {
	clientState, err := h.ctx.GetClientState(ctx, clientID)
	if err != nil {
		return "", err
	}
	if clientState.IsFrozen() {
		return Frozen, nil
	}
	consensusState, err := h.ctx.GetLatestConsensusState(ctx, clientID)
	if err != nil {
		return "", err
	}
	if isExpired(clientState, consensusState, h.ctx.HostTimestamp()) {
		return Expired, nil
	}
	return Active, nil
}

// isExpired returns true if `now` is after the end of the trusting period of `consensusState`
func isExpired(clientState ClientState, consensusState ConsensusState, now time.Time) bool {
	return now.After(consensusState.GetTimestamp().Add(clientState.GetTrustingPeriod()))
}
