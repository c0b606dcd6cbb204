package pathcodec

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/swaprouter/internal/currency"
	clierr "github.com/ggonzalez94/swaprouter/internal/errors"
	"github.com/ggonzalez94/swaprouter/internal/pool"
	"github.com/ggonzalez94/swaprouter/internal/route"
	"github.com/holiman/uint256"
)

var (
	wrapped = currency.DefaultWrappedNative().With(30, common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2"))
	rbtc    = currency.NativeOnChain(30)
	wrbtc   = wrapped[30]
	token0  = currency.NewToken(30, common.HexToAddress("0x0000000000000000000000000000000000000001"), 18, "t0", "token0")
	token1  = currency.NewToken(30, common.HexToAddress("0x0000000000000000000000000000000000000002"), 18, "t1", "token1")
	token2  = currency.NewToken(30, common.HexToAddress("0x0000000000000000000000000000000000000003"), 18, "t2", "token2")
)

type fixtures struct {
	pool01Medium pool.PoolOrPair
	pool12Low    pool.PoolOrPair
	pool0W       pool.PoolOrPair
	pool1W       pool.PoolOrPair
	pair01       pool.PoolOrPair
	pair12       pool.PoolOrPair
	pair0W       pool.PoolOrPair
	pair1W       pool.PoolOrPair
	pair2W       pool.PoolOrPair
}

func newFixtures(t *testing.T) fixtures {
	t.Helper()
	one := new(uint256.Int).Lsh(uint256.NewInt(1), 96)
	mkPool := func(a, b currency.Currency, fee pool.FeeAmount) pool.PoolOrPair {
		p, err := pool.NewPool(a, b, fee, one, nil, 0)
		if err != nil {
			t.Fatalf("NewPool failed: %v", err)
		}
		return pool.FromPool(p)
	}
	mkPair := func(a currency.Currency, ra int64, b currency.Currency, rb int64) pool.PoolOrPair {
		p, err := pool.NewPair(a, big.NewInt(ra), b, big.NewInt(rb))
		if err != nil {
			t.Fatalf("NewPair failed: %v", err)
		}
		return pool.FromPair(p)
	}
	return fixtures{
		pool01Medium: mkPool(token0, token1, pool.FeeMedium),
		pool12Low:    mkPool(token1, token2, pool.FeeLow),
		pool0W:       mkPool(token0, wrbtc, pool.FeeMedium),
		pool1W:       mkPool(token1, wrbtc, pool.FeeMedium),
		pair01:       mkPair(token0, 100, token1, 200),
		pair12:       mkPair(token1, 150, token2, 150),
		pair0W:       mkPair(token0, 100, wrbtc, 100),
		pair1W:       mkPair(token1, 175, wrbtc, 100),
		pair2W:       mkPair(token2, 150, wrbtc, 100),
	}
}

func mustRoute(t *testing.T, hops []pool.PoolOrPair, in, out currency.Currency) *route.MixedRoute {
	t.Helper()
	r, err := route.NewMixedRoute(hops, in, out, route.WithWrappedNative(wrapped))
	if err != nil {
		t.Fatalf("NewMixedRoute failed: %v", err)
	}
	return r
}

func TestEncodeMixedRouteVectors(t *testing.T) {
	f := newFixtures(t)
	cases := []struct {
		name string
		hops []pool.PoolOrPair
		in   currency.Currency
		out  currency.Currency
		want string
	}{
		{
			name: "v3 single hop",
			hops: []pool.PoolOrPair{f.pool01Medium}, in: token0, out: token1,
			want: "0x0000000000000000000000000000000000000001000bb80000000000000000000000000000000000000002",
		},
		{
			name: "v3 multihop",
			hops: []pool.PoolOrPair{f.pool01Medium, f.pool12Low}, in: token0, out: token2,
			want: "0x0000000000000000000000000000000000000001000bb800000000000000000000000000000000000000020001f40000000000000000000000000000000000000003",
		},
		{
			name: "v3 native input single hop",
			hops: []pool.PoolOrPair{f.pool0W}, in: rbtc, out: token0,
			want: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2000bb80000000000000000000000000000000000000001",
		},
		{
			name: "v3 native input multihop",
			hops: []pool.PoolOrPair{f.pool0W, f.pool01Medium}, in: rbtc, out: token1,
			want: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2000bb80000000000000000000000000000000000000001000bb80000000000000000000000000000000000000002",
		},
		{
			name: "v3 native output single hop",
			hops: []pool.PoolOrPair{f.pool0W}, in: token0, out: rbtc,
			want: "0x0000000000000000000000000000000000000001000bb8c02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		},
		{
			name: "v3 native output multihop",
			hops: []pool.PoolOrPair{f.pool01Medium, f.pool1W}, in: token0, out: rbtc,
			want: "0x0000000000000000000000000000000000000001000bb80000000000000000000000000000000000000002000bb8c02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		},
		{
			name: "v2 single hop",
			hops: []pool.PoolOrPair{f.pair01}, in: token0, out: token1,
			want: "0x00000000000000000000000000000000000000018000000000000000000000000000000000000000000002",
		},
		{
			name: "v2 multihop",
			hops: []pool.PoolOrPair{f.pair01, f.pair12}, in: token0, out: token2,
			want: "0x000000000000000000000000000000000000000180000000000000000000000000000000000000000000028000000000000000000000000000000000000000000003",
		},
		{
			name: "v2 native input single hop",
			hops: []pool.PoolOrPair{f.pair0W}, in: rbtc, out: token0,
			want: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc28000000000000000000000000000000000000000000001",
		},
		{
			name: "v2 native input multihop",
			hops: []pool.PoolOrPair{f.pair0W, f.pair01}, in: rbtc, out: token1,
			want: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc280000000000000000000000000000000000000000000018000000000000000000000000000000000000000000002",
		},
		{
			name: "v2 native output single hop",
			hops: []pool.PoolOrPair{f.pair0W}, in: token0, out: rbtc,
			want: "0x0000000000000000000000000000000000000001800000c02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		},
		{
			name: "v2 native output multihop",
			hops: []pool.PoolOrPair{f.pair01, f.pair1W}, in: token0, out: rbtc,
			want: "0x00000000000000000000000000000000000000018000000000000000000000000000000000000000000002800000c02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		},
		{
			name: "v3 then v2 to native",
			hops: []pool.PoolOrPair{f.pool01Medium, f.pair1W}, in: token0, out: rbtc,
			want: "0x0000000000000000000000000000000000000001000bb80000000000000000000000000000000000000002800000c02aaa39b223fe8d0a0e5c4f27ead9083c756cc2",
		},
		{
			name: "v3 then v2 then v2",
			hops: []pool.PoolOrPair{f.pool0W, f.pair1W, f.pair12}, in: token0, out: token2,
			want: "0x0000000000000000000000000000000000000001000bb8c02aaa39b223fe8d0a0e5c4f27ead9083c756cc280000000000000000000000000000000000000000000028000000000000000000000000000000000000000000003",
		},
		{
			name: "v3 then v3 then v2",
			hops: []pool.PoolOrPair{f.pool01Medium, f.pool1W, f.pair2W}, in: token0, out: token2,
			want: "0x0000000000000000000000000000000000000001000bb80000000000000000000000000000000000000002000bb8c02aaa39b223fe8d0a0e5c4f27ead9083c756cc28000000000000000000000000000000000000000000003",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := mustRoute(t, tc.hops, tc.in, tc.out)
			got, err := EncodeMixedRoute(r)
			if err != nil {
				t.Fatalf("EncodeMixedRoute failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected path\n got: %s\nwant: %s", got, tc.want)
			}
			if byteLen := (len(got) - 2) / 2; byteLen != EncodedLength(len(tc.hops)) {
				t.Fatalf("unexpected encoded length %d for %d hops", byteLen, len(tc.hops))
			}

			decoded, err := Decode(got)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if len(decoded.Tokens) != len(tc.hops)+1 || len(decoded.Markers) != len(tc.hops) {
				t.Fatalf("unexpected decoded shape: %d tokens, %d markers", len(decoded.Tokens), len(decoded.Markers))
			}
			for i, token := range r.Path() {
				if decoded.Tokens[i] != token.Address {
					t.Fatalf("token %d: got %s want %s", i, decoded.Tokens[i].Hex(), token.Address.Hex())
				}
			}
			for i, hop := range tc.hops {
				if decoded.Markers[i].Kind != hop.Kind() {
					t.Fatalf("marker %d: got kind %s want %s", i, decoded.Markers[i].Kind, hop.Kind())
				}
				if hop.Kind() == pool.KindPool && decoded.Markers[i].Fee != hop.Pool().Fee() {
					t.Fatalf("marker %d: got fee %d want %d", i, decoded.Markers[i].Fee, hop.Pool().Fee())
				}
			}
			if decoded.Hex() != got {
				t.Fatalf("re-encoding changed the path: %s", decoded.Hex())
			}
		})
	}
}

func TestEncodeIsRecomputedPerCall(t *testing.T) {
	f := newFixtures(t)
	r := mustRoute(t, []pool.PoolOrPair{f.pool01Medium, f.pair12}, token0, token2)
	first, err := EncodeMixedRoute(r)
	if err != nil {
		t.Fatalf("EncodeMixedRoute failed: %v", err)
	}
	second, _ := EncodeMixedRoute(r)
	if first != second {
		t.Fatalf("encoding is not deterministic: %s vs %s", first, second)
	}
}

func TestEncodeV3RouteExactOutput(t *testing.T) {
	f := newFixtures(t)
	r, err := route.NewV3Route([]*pool.Pool{f.pool01Medium.Pool(), f.pool12Low.Pool()}, token0, token2, route.WithWrappedNative(wrapped))
	if err != nil {
		t.Fatalf("NewV3Route failed: %v", err)
	}
	exactIn, err := EncodeV3Route(r, false)
	if err != nil {
		t.Fatalf("EncodeV3Route failed: %v", err)
	}
	if want := "0x0000000000000000000000000000000000000001000bb800000000000000000000000000000000000000020001f40000000000000000000000000000000000000003"; exactIn != want {
		t.Fatalf("unexpected exact-input path: %s", exactIn)
	}
	exactOut, err := EncodeV3Route(r, true)
	if err != nil {
		t.Fatalf("EncodeV3Route failed: %v", err)
	}
	if want := "0x00000000000000000000000000000000000000030001f40000000000000000000000000000000000000002000bb80000000000000000000000000000000000000001"; exactOut != want {
		t.Fatalf("unexpected exact-output path: %s", exactOut)
	}
}

func TestEncodeRejectsUnknownFeeTier(t *testing.T) {
	odd, err := pool.NewPool(token0, token1, pool.FeeAmount(2500), new(uint256.Int).Lsh(uint256.NewInt(1), 96), nil, 0)
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	r := mustRoute(t, []pool.PoolOrPair{pool.FromPool(odd)}, token0, token1)
	if _, err := EncodeMixedRoute(r); !clierr.IsCode(err, clierr.CodeUnsupportedFeeTier) {
		t.Fatalf("expected unsupported fee tier, got %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	valid := "0000000000000000000000000000000000000001000bb80000000000000000000000000000000000000002"
	cases := map[string]string{
		"empty":           "",
		"not hex":         "0xzz",
		"odd nibbles":     "0x" + valid[:len(valid)-1],
		"single address":  "0x" + valid[:40],
		"truncated hop":   "0x" + valid[:len(valid)-2],
		"dangling marker": "0x" + valid + "800000",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(input); !clierr.IsCode(err, clierr.CodeMalformedPath) {
				t.Fatalf("expected malformed path error, got %v", err)
			}
		})
	}

	p, err := Decode(strings.ToUpper(valid))
	if err != nil {
		t.Fatalf("unprefixed uppercase input should decode: %v", err)
	}
	if p.Markers[0].String() != "v3:3000" {
		t.Fatalf("unexpected marker %s", p.Markers[0])
	}
}
