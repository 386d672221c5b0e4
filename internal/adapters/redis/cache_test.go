package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "stayfinder/internal/adapters/redis"
	"stayfinder/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0), mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	in := domain.Hotel{ID: 7, Name: "Pearl Adyar Towers", City: "Chennai"}
	if err := c.Set(ctx, "hotel:7", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out domain.Hotel
	ok, err := c.Get(ctx, "hotel:7", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.ID != 7 || out.Name != "Pearl Adyar Towers" {
		t.Fatalf("unexpected value: %+v", out)
	}

	if err := c.Del(ctx, "hotel:7"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, err = c.Get(ctx, "hotel:7", &out)
	if err != nil {
		t.Fatalf("get after del: %v", err)
	}
	if ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_MissIsNotAnError(t *testing.T) {
	c, _ := newCache(t)

	var out domain.Hotel
	ok, err := c.Get(context.Background(), "hotel:404", &out)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
}

func TestCache_TTLApplied(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "hotel:1", domain.Hotel{ID: 1}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(61 * time.Second)

	var out domain.Hotel
	ok, _ := c.Get(ctx, "hotel:1", &out)
	if ok {
		t.Fatalf("expected expiry after TTL")
	}
}
