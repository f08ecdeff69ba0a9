package genotype

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildfunctions/genetic_solver/pkg/errs"
)

func bitSpace(t *testing.T, length int) Space {
	t.Helper()
	s, err := New(Config{Kind: Bitstring, Length: length})
	require.NoError(t, err)
	return s
}

func realSpace(t *testing.T, rec Recombination, scale float64) Space {
	t.Helper()
	s, err := New(Config{
		Kind:          RealVector,
		Constraints:   testConstraints,
		Recombination: rec,
		MutationScale: scale,
	})
	require.NoError(t, err)
	return s
}

func inBounds(t *testing.T, g Genotype, cs []Constraint) {
	t.Helper()
	for i, c := range cs {
		assert.GreaterOrEqual(t, g[i], c.From, "allele %d", i)
		assert.LessOrEqual(t, g[i], c.To, "allele %d", i)
	}
}

var testConstraints = []Constraint{{-1, 1}, {0, 10}, {5, 5}, {-100, -50}}

func TestNew_InvalidConfigurations(t *testing.T) {
	cases := map[string]Config{
		"unknown kind":           {Kind: "tree", Length: 4},
		"zero length":            {Kind: Bitstring},
		"negative length":        {Kind: Bitstring, Length: -2},
		"bit constraint count":   {Kind: Bitstring, Length: 3, Constraints: []Constraint{{0, 1}}},
		"bit constraint range":   {Kind: Bitstring, Length: 1, Constraints: []Constraint{{0, 2}}},
		"intermediate bitstring": {Kind: Bitstring, Length: 8, Recombination: Intermediate},
		"unknown recombination":  {Kind: Bitstring, Length: 8, Recombination: "blend"},
		"negative points":        {Kind: Bitstring, Length: 8, CrossoverPoints: -1},
		"real no constraints":    {Kind: RealVector, Length: 3},
		"real length mismatch":   {Kind: RealVector, Length: 3, Constraints: []Constraint{{0, 1}}},
		"real empty range":       {Kind: RealVector, Constraints: []Constraint{{2, 1}}},
		"real bad scale":         {Kind: RealVector, Constraints: []Constraint{{0, 1}}, MutationScale: 2},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(cfg)
			assert.ErrorIs(t, err, errs.ErrInvalidConfiguration)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	s, err := New(Config{Kind: RealVector, Constraints: testConstraints})
	require.NoError(t, err)
	assert.Equal(t, RealVector, s.Kind())
	assert.Equal(t, 4, s.Len())

	b, err := New(Config{Kind: Bitstring, Length: 8, Constraints: make8BitConstraints()})
	require.NoError(t, err)
	assert.Equal(t, Bitstring, b.Kind())
	assert.Equal(t, 8, b.Len())
}

func make8BitConstraints() []Constraint {
	cs := make([]Constraint, 8)
	for i := range cs {
		cs[i] = Constraint{From: 0, To: 1}
	}
	return cs
}

func TestBitstring_RandomIsBinary(t *testing.T) {
	s := bitSpace(t, 64)
	rng := rand.New(rand.NewSource(1))
	g := s.Random(rng)
	require.Len(t, g, 64)
	ones := 0
	for _, a := range g {
		require.True(t, a == 0 || a == 1)
		ones += int(a)
	}
	assert.Greater(t, ones, 0)
	assert.Less(t, ones, 64)
}

func TestBitstring_MutateBoundaries(t *testing.T) {
	s := bitSpace(t, 16)
	rng := rand.New(rand.NewSource(2))
	g := s.Random(rng)
	orig := g.Clone()

	same := s.Mutate(rng, g, 0)
	assert.True(t, same.Equal(g))

	flipped := s.Mutate(rng, g, 1)
	for i := range g {
		assert.Equal(t, 1-g[i], flipped[i], "bit %d", i)
	}
	assert.True(t, g.Equal(orig), "input must not be modified")
}

func TestCrossover_SelfIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, points := range []int{1, 2, 7, 50} {
		s, err := New(Config{Kind: Bitstring, Length: 8, CrossoverPoints: points})
		require.NoError(t, err)
		g := s.Random(rng)
		child, err := s.Recombine(rng, g, g)
		require.NoError(t, err)
		assert.True(t, child.Equal(g))
	}
}

func TestCrossover_SplicesParents(t *testing.T) {
	s := bitSpace(t, 10)
	a := Genotype{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	b := Genotype{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	rng := rand.New(rand.NewSource(4))

	for i := 0; i < 50; i++ {
		child, err := s.Recombine(rng, a, b)
		require.NoError(t, err)
		// One cut point: a prefix of zeros followed by a non-empty suffix of ones.
		bits := child.Bits()
		assert.Regexp(t, `^0+1+$`, bits)
	}
	assert.Equal(t, "0000000000", a.Bits())
	assert.Equal(t, "1111111111", b.Bits())
}

func TestRecombine_IncompatibleLengths(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	s := bitSpace(t, 4)
	_, err := s.Recombine(rng, Genotype{0, 1, 0, 1}, Genotype{0, 1})
	assert.ErrorIs(t, err, errs.ErrIncompatibleGenotype)

	r := realSpace(t, Intermediate, 0)
	_, err = r.Recombine(rng, Genotype{0, 1, 5, -60}, Genotype{0, 1, 5})
	assert.ErrorIs(t, err, errs.ErrIncompatibleGenotype)
}

func TestRealVector_RandomAndMutateStayInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for _, scale := range []float64{0, 0.1, 1} {
		s := realSpace(t, Intermediate, scale)
		for i := 0; i < 200; i++ {
			g := s.Random(rng)
			inBounds(t, g, testConstraints)
			inBounds(t, s.Mutate(rng, g, 1), testConstraints)
		}
	}
}

func TestRealVector_MutateZeroIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := realSpace(t, Intermediate, 0.2)
	g := s.Random(rng)
	assert.True(t, s.Mutate(rng, g, 0).Equal(g))
}

func TestIntermediate_SelfIsIdentityAndBetweenParents(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	s := realSpace(t, Intermediate, 0)
	a := s.Random(rng)
	b := s.Random(rng)

	self, err := s.Recombine(rng, a, a)
	require.NoError(t, err)
	assert.True(t, self.Equal(a))

	child, err := s.Recombine(rng, a, b)
	require.NoError(t, err)
	for i := range child {
		lo, hi := a[i], b[i]
		if lo > hi {
			lo, hi = hi, lo
		}
		assert.GreaterOrEqual(t, child[i], lo-1e-9)
		assert.LessOrEqual(t, child[i], hi+1e-9)
	}
}

func TestRealVector_CrossoverSelfIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	s := realSpace(t, Crossover, 0)
	g := s.Random(rng)
	child, err := s.Recombine(rng, g, g)
	require.NoError(t, err)
	assert.True(t, child.Equal(g))
}

func TestGenotype_CloneDoesNotAlias(t *testing.T) {
	g := Genotype{1, 0, 1}
	c := g.Clone()
	c[0] = 0
	assert.Equal(t, 1.0, g[0])
	assert.Nil(t, Genotype(nil).Clone())
}

func TestConfig_CopyDoesNotAlias(t *testing.T) {
	cfg := Config{Kind: RealVector, Constraints: []Constraint{{0, 1}}}
	cp := cfg.Copy()
	cp.Constraints[0].To = 9
	assert.Equal(t, 1.0, cfg.Constraints[0].To)
}
