package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/nestpack/internal/geom"
	"github.com/piwi3910/nestpack/internal/model"
)

// GeneticConfig holds parameters for the genetic ordering strategy.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
}

// DefaultGeneticConfig returns the default GA parameters. The seed is fixed
// so the strategy stays deterministic across runs.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// gene is a single placement decision: which item next, and whether its
// bounding box is evaluated quarter-turned during fitness decoding.
type gene struct {
	itemIndex int
	rotated   bool
}

// chromosome is a candidate processing order with rotation hints.
type chromosome struct {
	genes   []gene
	fitness float64
}

// geneticOrderer searches for an item order that packs tightly. Fitness is
// measured by decoding the chromosome through the fast bounding-box packer;
// the winning order is then handed to whichever placement mode the run
// uses, which re-derives rotations itself.
type geneticOrderer struct {
	cfg    model.NestConfig
	gaCfg  GeneticConfig
	items  []*model.Item
	dims   [][2]geom.Unit // Precomputed outline bbox dims per item
	canRot bool
	rng    *rand.Rand
}

// geneticOrder returns the items reordered by the GA. With one item or
// none there is nothing to optimize and the input order is returned.
func geneticOrder(items []*model.Item, cfg model.NestConfig) []*model.Item {
	if len(items) < 2 {
		return cloneOrder(items)
	}
	g := newGeneticOrderer(items, cfg, DefaultGeneticConfig())
	best := g.optimize()

	out := make([]*model.Item, len(best.genes))
	for i, gn := range best.genes {
		out[i] = items[gn.itemIndex]
	}
	return out
}

func newGeneticOrderer(items []*model.Item, cfg model.NestConfig, gaCfg GeneticConfig) *geneticOrderer {
	// Scale the search effort with problem size.
	if len(items) > 20 {
		gaCfg.Generations = 150
	}
	if len(items) > 50 {
		gaCfg.Generations = 200
		gaCfg.PopulationSize = 80
	}

	dims := make([][2]geom.Unit, len(items))
	for i, it := range items {
		min, max := it.Shape.BoundingBox()
		dims[i] = [2]geom.Unit{max.X - min.X, max.Y - min.Y}
	}

	canRot := false
	for _, r := range cfg.Rotations {
		if d := normalizeDeg(r); d == 90 || d == 270 {
			canRot = true
			break
		}
	}

	return &geneticOrderer{
		cfg:    cfg,
		gaCfg:  gaCfg,
		items:  items,
		dims:   dims,
		canRot: canRot,
		rng:    rand.New(rand.NewSource(gaCfg.Seed)),
	}
}

// optimize runs the evolution loop and returns the fittest chromosome.
func (g *geneticOrderer) optimize() chromosome {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.gaCfg.Generations; gen++ {
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		newPop := make([]chromosome, 0, g.gaCfg.PopulationSize)
		elite := g.gaCfg.EliteCount
		if elite > len(population) {
			elite = len(population)
		}
		for i := 0; i < elite; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.gaCfg.PopulationSize {
			p1 := g.tournamentSelect(population)
			p2 := g.tournamentSelect(population)
			child := g.orderCrossover(p1, p2)
			g.mutate(&child)
			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}
		population = newPop
	}

	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
	return population[0]
}

// initPopulation builds random permutations plus one greedy area-descending
// seed so the GA never starts worse than the default heuristic.
func (g *geneticOrderer) initPopulation() []chromosome {
	n := len(g.items)
	population := make([]chromosome, g.gaCfg.PopulationSize)
	for i := range population {
		genes := make([]gene, n)
		perm := g.rng.Perm(n)
		for j := 0; j < n; j++ {
			genes[j] = gene{
				itemIndex: perm[j],
				rotated:   g.canRot && g.rng.Float64() < 0.5,
			}
		}
		population[i] = chromosome{genes: genes}
	}

	greedy := orderByArea(g.items)
	genes := make([]gene, n)
	for i, it := range greedy {
		for j, orig := range g.items {
			if orig == it {
				genes[i] = gene{itemIndex: j}
				break
			}
		}
	}
	population[0] = chromosome{genes: genes}
	return population
}

// evaluate decodes the chromosome through the bounding-box packer and
// scores sheet efficiency, penalizing extra sheets and unplaced items.
func (g *geneticOrderer) evaluate(c chromosome) float64 {
	var packers []*maxRectsPacker
	var usedArea float64
	unplaced := 0

	for _, gn := range c.genes {
		w, h := g.dims[gn.itemIndex][0], g.dims[gn.itemIndex][1]
		if gn.rotated {
			w, h = h, w
		}

		placed := false
		for _, p := range packers {
			if _, ok := p.insert(w, h); ok {
				placed = true
				break
			}
		}
		if !placed {
			p := newMaxRectsPacker(g.cfg.SheetWidth, g.cfg.SheetHeight, g.cfg.Spacing)
			if _, ok := p.insert(w, h); ok {
				packers = append(packers, p)
				placed = true
			}
		}
		if placed {
			usedArea += float64(w) * float64(h)
		} else {
			unplaced++
		}
	}

	if len(packers) == 0 {
		return 0
	}
	sheetArea := float64(g.cfg.SheetWidth) * float64(g.cfg.SheetHeight)
	efficiency := usedArea / (float64(len(packers)) * sheetArea)

	fitness := efficiency - 0.1*float64(unplaced) - 0.05*float64(len(packers)-1)
	if fitness < 0 {
		fitness = 0
	}
	return fitness
}

// tournamentSelect picks the best of a random tournament.
func (g *geneticOrderer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.gaCfg.TournamentSize; i++ {
		c := population[g.rng.Intn(len(population))]
		if c.fitness > best.fitness {
			best = c
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover is Order Crossover (OX1) for permutation chromosomes; it
// preserves relative order from both parents.
func (g *geneticOrderer) orderCrossover(p1, p2 chromosome) chromosome {
	n := len(p1.genes)
	if n <= 2 {
		return g.copyChromosome(p1)
	}

	a := g.rng.Intn(n)
	b := g.rng.Intn(n)
	if a > b {
		a, b = b, a
	}

	child := chromosome{genes: make([]gene, n)}
	inSegment := make(map[int]bool, b-a+1)
	for i := a; i <= b; i++ {
		child.genes[i] = p1.genes[i]
		inSegment[p1.genes[i].itemIndex] = true
	}

	idx := (b + 1) % n
	for _, gn := range p2.genes {
		if !inSegment[gn.itemIndex] {
			child.genes[idx] = gn
			idx = (idx + 1) % n
		}
	}
	return child
}

// mutate applies swap, rotation-toggle and segment-inversion mutations.
func (g *geneticOrderer) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.gaCfg.MutationRate {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	if g.canRot && g.rng.Float64() < g.gaCfg.MutationRate {
		i := g.rng.Intn(n)
		c.genes[i].rotated = !c.genes[i].rotated
	}

	if g.rng.Float64() < g.gaCfg.MutationRate*0.5 {
		i, j := g.rng.Intn(n), g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func (g *geneticOrderer) copyChromosome(c chromosome) chromosome {
	genes := make([]gene, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
