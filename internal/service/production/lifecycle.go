package production

import (
	"fmt"
	"time"

	"confeccao/internal/storage"
)

type Event string

const (
	EventStartCutting Event = "start_cutting"
	EventConfirmCut   Event = "confirm_cut"
	EventDistribute   Event = "distribute"
	EventFinishSplit  Event = "finish_split"
	EventEdit         Event = "edit"
)

// Command is the payload of one lifecycle event.
type Command interface {
	Event() Event
}

type StartCutting struct{}

func (StartCutting) Event() Event { return EventStartCutting }

// ConfirmCut carries the counted pieces per color and size.
type ConfirmCut struct {
	Sizes map[string]storage.SizeDistribution
}

func (ConfirmCut) Event() Event { return EventConfirmCut }

type Distribute struct {
	SplitID    string
	Seamstress storage.Seamstress
	Request    DistributeRequest
}

func (Distribute) Event() Event { return EventDistribute }

type FinishSplit struct {
	SplitID string
}

func (FinishSplit) Event() Event { return EventFinishSplit }

type Edit struct {
	Input   OrderInput
	Product storage.ProductReference
}

func (Edit) Event() Event { return EventEdit }

type step func(o *storage.ProductionOrder, cmd Command, now time.Time) error

type transitionKey struct {
	from  storage.OrderStatus
	event Event
}

// transitions lists every legal (status, event) pair. Anything missing is
// rejected with ErrIllegalTransition.
var transitions = map[transitionKey]step{
	{storage.StatusPlanned, EventStartCutting}: startCutting,
	{storage.StatusPlanned, EventEdit}:         edit,
	{storage.StatusCutting, EventEdit}:         edit,
	{storage.StatusCutting, EventConfirmCut}:   confirmCut,
	{storage.StatusCutting, EventDistribute}:   distribute,
	{storage.StatusSewing, EventDistribute}:    distribute,
	{storage.StatusSewing, EventFinishSplit}:   finishSplit,
}

// Allowed reports whether the event may be applied to an order in status.
func Allowed(status storage.OrderStatus, event Event) bool {
	_, ok := transitions[transitionKey{status, event}]
	return ok
}

// Transition applies cmd to a copy of order and returns the new order.
// The input order is never modified.
func Transition(order storage.ProductionOrder, cmd Command, now time.Time) (storage.ProductionOrder, error) {
	apply, ok := transitions[transitionKey{order.Status, cmd.Event()}]
	if !ok {
		return order, fmt.Errorf("%w: %s while %s", ErrIllegalTransition, cmd.Event(), order.Status)
	}

	next := order.Clone()
	if err := apply(&next, cmd, now); err != nil {
		return order, err
	}
	next.UpdatedAt = now

	return next, nil
}

// IsComplete is the single completion predicate: the cutting room is empty
// and every packet sent out has come back finished.
func IsComplete(o storage.ProductionOrder) bool {
	if len(o.Splits) == 0 {
		return false
	}
	for _, item := range o.ActiveCuttingItems {
		if item.ActualPieces != 0 {
			return false
		}
	}
	for _, s := range o.Splits {
		if s.Status != storage.StatusFinished {
			return false
		}
	}
	return true
}

func startCutting(o *storage.ProductionOrder, _ Command, _ time.Time) error {
	o.Status = storage.StatusCutting
	return nil
}

func confirmCut(o *storage.ProductionOrder, cmd Command, _ time.Time) error {
	c := cmd.(ConfirmCut)

	if len(o.Splits) > 0 {
		return fmt.Errorf("%w: cut of order %s was already distributed", ErrIllegalTransition, o.ID)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: order %s has no items", ErrInvalidInput, o.ID)
	}

	known := make(map[string]bool, len(o.Items))
	for _, item := range o.Items {
		known[item.Color] = true
	}
	for color, sizes := range c.Sizes {
		if !known[color] {
			return fmt.Errorf("%w: color %q is not part of order %s", ErrInvalidInput, color, o.ID)
		}
		for size, n := range sizes {
			if n < 0 {
				return fmt.Errorf("%w: negative count for %s/%s", ErrInvalidInput, color, size)
			}
		}
	}

	for i := range o.Items {
		if sizes, ok := c.Sizes[o.Items[i].Color]; ok {
			o.Items[i].Sizes = sizes.Clone()
		}
		o.Items[i].ActualPieces = o.Items[i].Sizes.Total()
	}
	o.ActiveCuttingItems = storage.CloneItems(o.Items)

	return nil
}

func distribute(o *storage.ProductionOrder, cmd Command, now time.Time) error {
	d := cmd.(Distribute)

	if !o.CutConfirmed() {
		return fmt.Errorf("%w: cut of order %s is not confirmed", ErrIllegalTransition, o.ID)
	}
	if d.Seamstress.ID == "" {
		return fmt.Errorf("%w: seamstress is required", ErrInvalidInput)
	}

	lots, err := PlanLots(o.ActiveCuttingItems, d.Request)
	if err != nil {
		return err
	}

	splitItems := make([]storage.OrderItem, 0, len(lots))
	for _, lot := range lots {
		idx := itemIndex(o.ActiveCuttingItems, lot.Color)
		active := &o.ActiveCuttingItems[idx]

		remaining := make(storage.SizeDistribution, len(active.Sizes))
		for size, current := range active.Sizes {
			remaining[size] = max(0, current-lot.Sizes[size])
		}
		active.Sizes = remaining
		active.ActualPieces = remaining.Total()

		hex := active.ColorHex
		if i := itemIndex(o.Items, lot.Color); i >= 0 && o.Items[i].ColorHex != "" {
			hex = o.Items[i].ColorHex
		}

		total := lot.Sizes.Total()
		splitItems = append(splitItems, storage.OrderItem{
			Color:           lot.Color,
			ColorHex:        hex,
			EstimatedPieces: total,
			ActualPieces:    total,
			Sizes:           lot.Sizes.Clone(),
		})
	}

	o.Splits = append(o.Splits, storage.OrderSplit{
		ID:             d.SplitID,
		SeamstressID:   d.Seamstress.ID,
		SeamstressName: d.Seamstress.Name,
		Status:         storage.StatusSewing,
		Items:          splitItems,
		CreatedAt:      now,
	})
	o.Status = storage.StatusSewing

	return nil
}

func finishSplit(o *storage.ProductionOrder, cmd Command, now time.Time) error {
	f := cmd.(FinishSplit)

	idx := o.SplitIndex(f.SplitID)
	if idx < 0 {
		return fmt.Errorf("%w: %s in order %s", ErrSplitNotFound, f.SplitID, o.ID)
	}
	if o.Splits[idx].Status == storage.StatusFinished {
		return fmt.Errorf("%w: %s", ErrSplitFinished, f.SplitID)
	}

	finished := now
	o.Splits[idx].Status = storage.StatusFinished
	o.Splits[idx].FinishedAt = &finished

	if IsComplete(*o) {
		o.Status = storage.StatusFinished
		orderFinished := now
		o.FinishedAt = &orderFinished
	} else {
		o.Status = storage.StatusSewing
	}

	return nil
}

func edit(o *storage.ProductionOrder, cmd Command, _ time.Time) error {
	e := cmd.(Edit)

	if o.CutConfirmed() {
		return fmt.Errorf("%w: cut of order %s is already confirmed", ErrIllegalTransition, o.ID)
	}

	items, err := BuildItems(e.Input, e.Product)
	if err != nil {
		return err
	}

	applyHeader(o, e.Input, e.Product)
	o.Items = items

	return nil
}

func itemIndex(items []storage.OrderItem, color string) int {
	for i, item := range items {
		if item.Color == color {
			return i
		}
	}
	return -1
}
