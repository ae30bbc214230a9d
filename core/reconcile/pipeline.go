package reconcile

import (
	"context"
	"fmt"
	"os"

	"deluge-submit/core/deluge"

	"go.uber.org/zap"
)

// rpcLabelPlugin is the plugin name the RPC generation expects.
const rpcLabelPlugin = "Label"

// Pipeline submits a batch through a non-blocking client. All continuations run on
// the batch's Loop.
type Pipeline struct {
	client   deluge.AsyncClient
	resolver *DirectReturn
	cfg      deluge.Config
	logger   *zap.Logger
	mkdirAll func(path string, perm os.FileMode) error
}

// NewPipeline creates a pipeline for one connection configuration.
func NewPipeline(client deluge.AsyncClient, cfg deluge.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		client:   client,
		resolver: NewDirectReturn(client),
		cfg:      cfg,
		logger:   logger,
		mkdirAll: os.MkdirAll,
	}
}

// pipelineRun is the state of one Run; only the loop goroutine touches it.
type pipelineRun struct {
	loop         *Loop
	tracker      *tracker
	join         *join
	connected    bool
	disconnected bool
	connectErr   error
}

// Run drives the batch on loop until the disconnect completes or the connection fails.
// A failed connection fails every pending item with ReasonConnect and returns an error
// wrapping ErrConnection.
func (p *Pipeline) Run(ctx context.Context, loop *Loop, t *tracker) (LoopState, error) {
	r := &pipelineRun{loop: loop, tracker: t}

	state, err := loop.Run(ctx, func() { p.connect(ctx, r) })
	if err != nil {
		if r.connected && !r.disconnected {
			r.disconnected = true
			p.client.Disconnect(context.WithoutCancel(ctx))
		}
		t.abort(ctx, ReasonStalled)
		return state, err
	}

	if state == LoopAborted {
		return state, fmt.Errorf("%w: %v", ErrConnection, r.connectErr)
	}
	return state, nil
}

func (p *Pipeline) connect(ctx context.Context, r *pipelineRun) {
	opts := deluge.ConnectOptions{
		Host:     p.cfg.Host,
		Port:     p.cfg.Port,
		Username: p.cfg.User,
		Password: p.cfg.Pass,
	}

	Await(r.loop, p.client.Connect(ctx, opts), func(_ struct{}, err error) {
		if err != nil {
			p.logger.Warn("Connect to deluge daemon failed", zap.String("address", p.cfg.Address()), zap.Error(err))
			r.connectErr = err
			r.tracker.abandon(ctx, ReasonConnect)
			r.loop.Stop(LoopAborted)
			return
		}
		r.connected = true
		r.join = newJoin(func() { p.disconnect(ctx, r) })

		for _, item := range r.tracker.batch.Items {
			if item.Status.IsTerminal() {
				continue
			}
			p.submit(ctx, r, item)
		}
		r.join.seal()
	})
}

func (p *Pipeline) submit(ctx context.Context, r *pipelineRun, item *StagedItem) {
	t := r.tracker
	if !staged(item) {
		p.logger.Debug("Staged file missing", zap.String("title", item.Title), zap.String("file", item.File))
		t.fail(ctx, item, fmt.Sprintf("%s: %s", ReasonStagedMissing, item.File))
		return
	}

	addOpts, err := addOptions(item)
	if err != nil {
		t.fail(ctx, item, err.Error())
		return
	}
	postOpts, err := postAddOptions(item)
	if err != nil {
		t.fail(ctx, item, err.Error())
		return
	}

	if err := t.submit(item); err != nil {
		p.logger.Error("Failed to submit item", zap.String("title", item.Title), zap.Error(err))
		t.fail(ctx, item, err.Error())
		return
	}
	r.join.add()
	f := p.resolver.Begin(ctx, item, addOpts)

	Await(r.loop, f, func(id string, err error) {
		if err != nil {
			p.logger.Info("Torrent was not added to deluge", zap.String("title", item.Title), zap.Error(err))
			t.fail(ctx, item, fmt.Sprintf("could not be added to service: %v", err))
			r.join.done()
			return
		}
		if id == "" {
			p.logger.Info("Torrent is already loaded in deluge, cannot set movedone, label or queuetotop",
				zap.String("title", item.Title))
			t.finish(ctx, item, StatusDuplicate)
			r.join.done()
			return
		}

		p.logger.Info("Torrent added to deluge", zap.String("title", item.Title), zap.String("id", id))
		if !item.resolved {
			item.ID = id
			item.resolved = true
		}
		p.chain(r, item, p.steps(ctx, item, postOpts), func() {
			t.finish(ctx, item, StatusConfirmed)
			r.join.done()
		})
	})
}

// step is one post-add call.
type step struct {
	name string
	run  func() *deluge.Future[struct{}]
}

func (p *Pipeline) steps(ctx context.Context, item *StagedItem, opts PostAddOptions) []step {
	var steps []step
	id := item.ID

	if opts.MoveDone != "" {
		if err := p.mkdirAll(opts.MoveDone, 0o755); err != nil {
			p.logger.Warn("Failed to create movedone directory", zap.String("movedone", opts.MoveDone), zap.Error(err))
		}
		steps = append(steps,
			step{"set_move_completed", func() *deluge.Future[struct{}] {
				return p.client.SetMoveCompleted(ctx, id, true)
			}},
			step{"set_move_completed_path", func() *deluge.Future[struct{}] {
				return p.client.SetMoveCompletedPath(ctx, id, opts.MoveDone)
			}},
		)
	}

	if opts.Label != "" {
		steps = append(steps,
			step{"enable_label_plugin", func() *deluge.Future[struct{}] {
				return p.client.EnablePlugin(ctx, rpcLabelPlugin)
			}},
			step{"ensure_label", func() *deluge.Future[struct{}] {
				return p.ensureLabel(ctx, opts.Label)
			}},
			step{"set_torrent_label", func() *deluge.Future[struct{}] {
				return p.client.SetTorrentLabel(ctx, id, opts.Label)
			}},
		)
	}

	if opts.QueueToTop {
		steps = append(steps, step{"queue_top", func() *deluge.Future[struct{}] {
			return p.client.QueueTop(ctx, []string{id})
		}})
	}
	return steps
}

// ensureLabel creates label unless the daemon already knows it.
func (p *Pipeline) ensureLabel(ctx context.Context, label string) *deluge.Future[struct{}] {
	return deluge.Go(func() (struct{}, error) {
		labels, err := p.client.Labels(ctx).Result()
		if err != nil {
			return struct{}{}, err
		}
		if contains(labels, label) {
			return struct{}{}, nil
		}
		return p.client.AddLabel(ctx, label).Result()
	})
}

// chain runs steps one after another on the loop, then calls done. A failed step is
// logged and the chain continues.
func (p *Pipeline) chain(r *pipelineRun, item *StagedItem, steps []step, done func()) {
	if len(steps) == 0 {
		done()
		return
	}
	s := steps[0]
	Await(r.loop, s.run(), func(_ struct{}, err error) {
		if err != nil {
			p.logger.Warn("Post-add option failed",
				zap.String("title", item.Title),
				zap.String("step", s.name),
				zap.Error(err),
			)
		} else {
			p.logger.Debug("Post-add option applied", zap.String("title", item.Title), zap.String("step", s.name))
		}
		p.chain(r, item, steps[1:], done)
	})
}

func (p *Pipeline) disconnect(ctx context.Context, r *pipelineRun) {
	r.disconnected = true
	Await(r.loop, p.client.Disconnect(ctx), func(_ struct{}, err error) {
		if err != nil {
			p.logger.Warn("Disconnect from deluge daemon failed", zap.Error(err))
		}
		p.logger.Debug("Done adding torrents to deluge")
		r.loop.Stop(LoopDone)
	})
}
