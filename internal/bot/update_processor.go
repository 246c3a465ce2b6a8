package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngwarden/internal/infra"
	"github.com/iamwavecut/ngwarden/internal/observability"
)

const (
	UpdateTimeout = 5 * time.Minute
)

type UpdateProcessor struct {
	s              Service
	updateHandlers []Handler
}

var (
	handlersMu         sync.RWMutex
	registeredHandlers = make(map[string]Handler)
)

func RegisterUpdateHandler(title string, handler Handler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	registeredHandlers[title] = handler
}

// NewUpdateProcessor chains the registered handlers named in enabled, in that order.
func NewUpdateProcessor(s Service, enabled []string) *UpdateProcessor {
	handlersMu.RLock()
	defer handlersMu.RUnlock()

	enabledHandlers := make([]Handler, 0, len(enabled))
	for _, handlerName := range enabled {
		handler, ok := registeredHandlers[strings.TrimSpace(handlerName)]
		if !ok || handler == nil {
			log.Warnf("no registered handler: %s", handlerName)
			continue
		}
		enabledHandlers = append(enabledHandlers, handler)
	}

	return &UpdateProcessor{
		s:              s,
		updateHandlers: enabledHandlers,
	}
}

func (up *UpdateProcessor) Process(ctx context.Context, u *api.Update) (err error) {
	if u == nil {
		return errors.New("update is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	done := observability.StartUpdateProcessing(updateKind(u))
	defer func() {
		if err != nil {
			done("error")
			return
		}
		done("ok")
	}()

	var updateTime time.Time
	switch {
	case u.Message != nil:
		updateTime = time.Unix(int64(u.Message.Date), 0)
	case u.EditedMessage != nil:
		updateTime = time.Unix(int64(u.EditedMessage.Date), 0)
	default:
		updateTime = time.Now()
	}
	if time.Since(updateTime) > UpdateTimeout {
		log.WithFields(log.Fields{
			"update_time": updateTime,
			"age":         time.Since(updateTime),
		}).Debug("Skipping outdated update")
		return nil
	}

	chat := u.FromChat()
	user := u.SentFrom()

	for _, handler := range up.updateHandlers {
		if err := ctx.Err(); err != nil {
			return err
		}
		proceed, err := handler.Handle(ctx, u, chat, user)
		if err != nil {
			return errors.WithMessage(err, "handling error")
		}
		if !proceed {
			log.Trace("not proceeding")
			return nil
		}
	}
	return nil
}

func updateKind(u *api.Update) string {
	switch {
	case u.CallbackQuery != nil:
		return "callback"
	case u.Message != nil && len(u.Message.NewChatMembers) > 0:
		return "join"
	case u.Message != nil && u.Message.IsCommand():
		return "command"
	case u.Message != nil:
		return "message"
	default:
		return "other"
	}
}

type Poller interface {
	GetUpdates(config api.UpdateConfig) ([]api.Update, error)
}

func GetUpdatesChans(ctx context.Context, bot Poller, config api.UpdateConfig, buffer int) (api.UpdatesChannel, chan error) {
	ch := make(chan api.Update, buffer)
	chErr := make(chan error, 1)

	go func() {
		defer close(ch)
		defer close(chErr)
		for {
			select {
			case <-ctx.Done():
				chErr <- ctx.Err()
				return
			default:
				updates, err := bot.GetUpdates(config)
				if err != nil {
					chErr <- err
					return
				}

				for _, update := range updates {
					if update.UpdateID >= config.Offset {
						config.Offset = update.UpdateID + 1
						select {
						case ch <- update:
						case <-ctx.Done():
							chErr <- ctx.Err()
							return
						}
					}
				}
			}
		}
	}()

	return ch, chErr
}

// UpdateLoop polls updates and feeds them to the processor one at a time.
// Handler errors are logged and never stop the loop.
type UpdateLoop struct {
	poller    Poller
	processor *UpdateProcessor
	config    api.UpdateConfig
	buffer    int

	cancel   context.CancelFunc
	done     chan struct{}
	doneOnce sync.Once
	errs     chan error
}

func NewUpdateLoop(poller Poller, processor *UpdateProcessor, config api.UpdateConfig, buffer int) *UpdateLoop {
	return &UpdateLoop{
		poller:    poller,
		processor: processor,
		config:    config,
		buffer:    buffer,
		errs:      make(chan error, 1),
	}
}

// Errors reports a fatal polling failure.
func (l *UpdateLoop) Errors() <-chan error {
	return l.errs
}

func (l *UpdateLoop) Start(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.done = make(chan struct{})
	updates, pollErrs := GetUpdatesChans(loopCtx, l.poller, l.config, l.buffer)

	// a panicking run is restarted by GoRecoverable, done closes on a clean exit only
	go infra.GoRecoverable(-1, "update_loop", func() {
		l.run(loopCtx, updates, pollErrs)
		l.doneOnce.Do(func() { close(l.done) })
	})
	return nil
}

func (l *UpdateLoop) run(ctx context.Context, updates api.UpdatesChannel, pollErrs chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-pollErrs:
			if ok && err != nil && !errors.Is(err, context.Canceled) {
				select {
				case l.errs <- err:
				default:
				}
			}
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if err := l.processor.Process(ctx, &u); err != nil {
				log.WithError(err).WithField("update_id", u.UpdateID).Error("cant process update")
			}
		}
	}
}

func (l *UpdateLoop) Stop(ctx context.Context) error {
	if l.cancel == nil {
		return nil
	}
	l.cancel()
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
