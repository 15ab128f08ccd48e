// Package dispatch sends drafts in the background and records the outcome
// in each draft's response cell.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/shhac/courier/internal/auth"
	"github.com/shhac/courier/internal/domain"
	"github.com/shhac/courier/internal/reconcile"
	"github.com/shhac/courier/internal/request"
	"github.com/shhac/courier/internal/transport"
)

// Options tunes dispatcher policy.
type Options struct {
	// SigningFailOpen sends the request unsigned when signing fails. By
	// default the request is withheld and an auth failure is recorded.
	SigningFailOpen bool
	// CancelInFlight cancels the previous send of a draft when a new one
	// starts, and drops results of superseded sends. By default sends are
	// independent and the last one to complete wins.
	CancelInFlight bool
}

// Exchange is a finished request/response pair.
type Exchange struct {
	// Request is the request as sent, after auth was applied.
	Request  *request.WireRequest
	Response domain.Response
	Started  time.Time
}

// Dispatcher assembles, authenticates and sends drafts.
type Dispatcher struct {
	transport transport.Transport
	auth      *auth.Applier
	exec      Executor
	logger    *slog.Logger
	opts      Options
}

// New creates a dispatcher.
func New(tr transport.Transport, applier *auth.Applier, exec Executor, logger *slog.Logger, opts Options) *Dispatcher {
	return &Dispatcher{
		transport: tr,
		auth:      applier,
		exec:      exec,
		logger:    logger,
		opts:      opts,
	}
}

// Send snapshots and assembles draft, then schedules the exchange on the
// executor and returns without waiting for the network. An invalid draft is
// reported as a *request.AssemblyError and nothing is scheduled. The outcome
// is written to draft.Response() when the exchange completes.
func (d *Dispatcher) Send(draft *domain.Draft) error {
	snap := draft.Snapshot()
	wire, err := request.AssembleSnapshot(snap)
	if err != nil {
		d.logger.Info("draft not sent",
			slog.Uint64("draft", uint64(snap.ID)),
			slog.Any("error", err),
		)
		return err
	}

	cell := draft.Response()
	ctx, cancel := context.WithCancel(context.Background())
	ticket, previous := cell.Begin(cancel)
	if d.opts.CancelInFlight && previous != nil {
		d.logger.Debug("cancelling previous send", slog.Uint64("draft", uint64(snap.ID)))
		previous()
	}

	d.logger.Debug("send scheduled",
		slog.Uint64("draft", uint64(snap.ID)),
		slog.Uint64("ticket", ticket),
		slog.String("method", string(wire.Method)),
		slog.String("url", wire.URL),
	)

	d.exec.Go(func(execCtx context.Context) {
		stop := context.AfterFunc(execCtx, cancel)
		defer stop()
		defer cancel()

		ex := d.Execute(ctx, snap.Auth, wire)
		if !cell.Finish(ticket, ex.Response, d.opts.CancelInFlight) {
			d.logger.Debug("superseded response dropped",
				slog.Uint64("draft", uint64(snap.ID)),
				slog.Uint64("ticket", ticket),
			)
		}
	})
	return nil
}

// Execute applies auth to a copy of wire, performs the exchange and
// reconciles the outcome. It blocks until the exchange is over and never
// returns an error: every failure is expressed as a Response.
func (d *Dispatcher) Execute(ctx context.Context, scheme domain.AuthScheme, wire *request.WireRequest) Exchange {
	req := wire.Clone()
	started := time.Now()

	if err := d.auth.Apply(ctx, scheme, req); err != nil {
		if !d.opts.SigningFailOpen {
			d.logger.Error("signing failed, request withheld",
				slog.String("url", req.URL),
				slog.Any("error", err),
			)
			return Exchange{Request: req, Response: reconcile.AuthFailure(err), Started: started}
		}
		d.logger.Warn("signing failed, sending unsigned request",
			slog.String("url", req.URL),
			slog.Any("error", err),
		)
	}

	raw, err := d.transport.Fetch(ctx, req)
	elapsed := time.Since(started)
	if err != nil {
		return Exchange{Request: req, Response: reconcile.TransportFailure(err, elapsed), Started: started}
	}

	resp := reconcile.Success(raw, elapsed)
	d.logger.Info("response received",
		slog.String("method", string(req.Method)),
		slog.String("url", req.URL),
		slog.Int("status", resp.Status),
		slog.Duration("duration", elapsed),
	)
	return Exchange{Request: req, Response: resp, Started: started}
}
