package predlog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/inferlab/predictd/pkg/domain/predlog"
	"github.com/inferlab/predictd/pkg/domain/predlog/mocks"
)

func TestFanoutSink(t *testing.T) {
	ctx := context.Background()

	t.Run("every member receives every record", func(t *testing.T) {
		first := mocks.NewSink()
		first.Impl.Write = func(context.Context, predlog.Record) error { return nil }
		second := mocks.NewSink()
		second.Impl.Write = func(context.Context, predlog.Record) error { return nil }

		testee := predlog.NewFanoutSink(first, second)

		if err := testee.Write(ctx, record("req-1")); err != nil {
			t.Fatal(err)
		}

		if first.Calls.Write.Times() != 1 || second.Calls.Write.Times() != 1 {
			t.Errorf(
				"both sinks should receive the record: %d, %d",
				first.Calls.Write.Times(), second.Calls.Write.Times(),
			)
		}
	})

	t.Run("a failing member does not starve the others", func(t *testing.T) {
		broken := mocks.NewSink()
		broken.Impl.Write = func(context.Context, predlog.Record) error {
			return errors.New("sink is down")
		}
		healthy := mocks.NewSink()
		healthy.Impl.Write = func(context.Context, predlog.Record) error { return nil }

		testee := predlog.NewFanoutSink(broken, healthy)

		if err := testee.Write(ctx, record("req-1")); err == nil {
			t.Error("the failure should be reported")
		}

		if healthy.Calls.Write.Times() != 1 {
			t.Error("the healthy sink should still receive the record")
		}
	})

	t.Run("Close closes every member", func(t *testing.T) {
		first := mocks.NewSink()
		first.Impl.Close = func() error { return errors.New("already broken") }
		second := mocks.NewSink()
		second.Impl.Close = func() error { return nil }

		testee := predlog.NewFanoutSink(first, second)

		if err := testee.Close(); err == nil {
			t.Error("the close failure should be reported")
		}
		if second.Calls.Close.Times() != 1 {
			t.Error("the second sink should be closed regardless")
		}
	})
}
