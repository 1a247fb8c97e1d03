package eventbus

import (
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/renterra/backoffice/pkg/serrors"
)

// EventBus dispatches published events to subscribed handler functions whose
// signatures match the published arguments.
type EventBus interface {
	Publish(args ...interface{})
	Subscribe(handler interface{})
	Unsubscribe(handler interface{})
	Clear()
	SubscribersCount() int
}

var (
	ErrNoSubscribers = serrors.NewError("EVENTBUS_NO_SUBSCRIBERS", "no matching subscribers", "")
)

type subscriber struct {
	handler interface{}
}

type publisherImpl struct {
	log         *logrus.Logger
	mu          sync.RWMutex
	subscribers []subscriber
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisherImpl{log: log}
}

// MatchSignature reports whether handler is a func whose parameters accept
// the given argument list.
func MatchSignature(handler interface{}, args []interface{}) bool {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func {
		return false
	}
	if t.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		paramType := t.In(i)
		if arg == nil {
			if paramType.Kind() != reflect.Interface && paramType.Kind() != reflect.Ptr {
				return false
			}
			continue
		}
		argType := reflect.TypeOf(arg)
		if paramType.Kind() == reflect.Interface {
			if !argType.Implements(paramType) {
				return false
			}
			continue
		}
		if !argType.AssignableTo(paramType) {
			return false
		}
	}
	return true
}

func (p *publisherImpl) Publish(args ...interface{}) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	matched := false
	for _, sub := range p.subscribers {
		if !MatchSignature(sub.handler, args) {
			continue
		}
		matched = true
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			in[i] = reflect.ValueOf(arg)
		}
		reflect.ValueOf(sub.handler).Call(in)
	}
	if !matched && p.log != nil {
		p.log.WithField("args", len(args)).Debug(ErrNoSubscribers.Message)
	}
}

func (p *publisherImpl) Subscribe(handler interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, subscriber{handler: handler})
}

func (p *publisherImpl) Unsubscribe(handler interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ptr := reflect.ValueOf(handler).Pointer()
	filtered := p.subscribers[:0]
	for _, sub := range p.subscribers {
		if reflect.ValueOf(sub.handler).Pointer() != ptr {
			filtered = append(filtered, sub)
		}
	}
	p.subscribers = filtered
}

func (p *publisherImpl) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = nil
}

func (p *publisherImpl) SubscribersCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers)
}
