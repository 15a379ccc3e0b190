package parallel

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/Fepozopo/localeq/pkg/enhance"
)

func randomPlane(rng *rand.Rand, w, h int) *enhance.Plane[uint8] {
	p := enhance.NewPlane[uint8](w, h)
	for i := range p.Data {
		p.Data[i] = uint8(rng.Intn(256))
	}
	return p
}

func TestEqualizeLocalMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, tc := range []struct{ w, h, radius, workers int }{
		{40, 30, 3, 4},
		{17, 64, 5, 8},
		{64, 11, 5, 3},
		{9, 9, 4, 2},
		{5, 40, 4, 4}, // narrower than the window: sequential fallback
		{25, 25, 2, 1},
		{33, 21, 0, 4},
	} {
		in := randomPlane(rng, tc.w, tc.h)
		want := enhance.NewPlane[uint8](tc.w, tc.h)
		s := enhance.NewScratch(256)
		if err := enhance.EqualizeLocal(in, tc.radius, want, s.Histogram, s.Transform); err != nil {
			t.Fatal(err)
		}
		got := enhance.NewPlane[uint8](tc.w, tc.h)
		if err := EqualizeLocal(context.Background(), in, tc.radius, got, Options{Workers: tc.workers}); err != nil {
			t.Fatalf("%+v: %v", tc, err)
		}
		for i := range want.Data {
			if got.Data[i] != want.Data[i] {
				t.Fatalf("%+v: sample %d = %d, sequential = %d", tc, i, got.Data[i], want.Data[i])
			}
		}
	}
}

func TestEqualizeLocalUint16(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	in := enhance.NewPlane[uint16](30, 26)
	for i := range in.Data {
		in.Data[i] = uint16(rng.Intn(1024))
	}
	want := enhance.NewPlane[uint16](30, 26)
	s := enhance.NewScratch(1024)
	if err := enhance.EqualizeLocal(in, 4, want, s.Histogram, s.Transform); err != nil {
		t.Fatal(err)
	}
	got := enhance.NewPlane[uint16](30, 26)
	if err := EqualizeLocal(context.Background(), in, 4, got, Options{Workers: 3, Levels: 1024}); err != nil {
		t.Fatal(err)
	}
	for i := range want.Data {
		if got.Data[i] != want.Data[i] {
			t.Fatalf("sample %d = %d, sequential = %d", i, got.Data[i], want.Data[i])
		}
	}
}

func TestEqualizeLocalCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := enhance.NewPlane[uint8](20, 20)
	out := enhance.NewPlane[uint8](20, 20)
	if err := EqualizeLocal(ctx, in, 2, out, Options{Workers: 2}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEqualizeLocalRejectsBeforeStarting(t *testing.T) {
	in := enhance.NewPlane[uint8](20, 20)
	if err := EqualizeLocal(context.Background(), in, 2, in, Options{Workers: 2}); !errors.Is(err, enhance.ErrAliased) {
		t.Fatalf("expected ErrAliased, got %v", err)
	}
	out := enhance.NewPlane[uint8](20, 21)
	if err := EqualizeLocal(context.Background(), in, 2, out, Options{}); !errors.Is(err, enhance.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
	wide := enhance.NewPlane[int32](20, 20)
	if err := EqualizeLocal(context.Background(), wide, 2, enhance.NewPlane[int32](20, 20), Options{}); !errors.Is(err, enhance.ErrHistogramSize) {
		t.Fatalf("expected ErrHistogramSize without explicit levels, got %v", err)
	}
}

func TestEqualizeLocalHugeRadius(t *testing.T) {
	in := enhance.NewPlane[uint8](5, 5)
	for i := range in.Data {
		in.Data[i] = 100
	}
	out := enhance.NewPlane[uint8](5, 5)
	if err := EqualizeLocal(context.Background(), in, math.MaxInt, out, Options{Workers: 4}); err != nil {
		t.Fatal(err)
	}
	for i, v := range out.Data {
		if v != 255 {
			t.Fatalf("pixel %d = %d, want 255", i, v)
		}
	}
}

func TestEqualizeLocalSampleOutsideLevels(t *testing.T) {
	in := enhance.NewPlane[uint16](20, 20)
	in.Set(10, 10, 5000)
	out := enhance.NewPlane[uint16](20, 20)
	if err := EqualizeLocal(context.Background(), in, 3, out, Options{Workers: 2, Levels: 4096}); !errors.Is(err, enhance.ErrSampleRange) {
		t.Fatalf("expected ErrSampleRange, got %v", err)
	}
}
