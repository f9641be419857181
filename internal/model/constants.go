// Package model holds the value types and biological constants shared by
// every stage of the pipeline: genome, expression, decoding, phenotype,
// fitness and checkpointing all operate on these definitions.
package model

// Codon is a 3-bit reading unit. Only eight values exist.
type Codon uint8

const (
	CodonStart Codon = 0b000
	CodonStop  Codon = 0b001
	CodonM0    Codon = 0b010
	CodonM1    Codon = 0b011
	CodonW0    Codon = 0b100
	CodonW1    Codon = 0b101
	CodonH0    Codon = 0b110
	CodonH1    Codon = 0b111
)

const (
	// PromSize is the width, in bits, of the promoter consensus window.
	PromSize = 22
	// CodonSize is the width, in bits, of one codon.
	CodonSize = 3
	// TermStemSize is the number of bits compared on each arm of the
	// terminator hairpin; a perfect 4-bit stem scores TermStemSize.
	TermStemSize = 4
	// TermLoopSize is the number of unconstrained bits in the hairpin loop.
	TermLoopSize = 3
	// ShineDalgarnoSize is the width, in bits, of the ribosome-binding motif.
	ShineDalgarnoSize = 6
	// ShineDalgarnoToStart is the gap, in bits, between the end of the
	// Shine-Dalgarno motif and the first bit of the start codon.
	ShineDalgarnoToStart = 4
	// StartCodonSpacer is the number of bits from a gene-start candidate to
	// the first bit of the reading frame (SD motif + gap + start codon).
	StartCodonSpacer = ShineDalgarnoSize + ShineDalgarnoToStart + CodonSize
	// MaxCodonsPerProtein caps the number of codons the decoder folds into
	// (m, w, h); longer coding regions are silently truncated.
	MaxCodonsPerProtein = 64
	// PhenotypeSamples is the number of points sampled on [0,1) for the
	// phenotype curve, the environment target curve and the delta curve.
	PhenotypeSamples = 300
)

// PromoterMotif is the fixed 22-bit consensus a promoter window is compared
// against by Hamming distance.
var PromoterMotif = [PromSize]uint8{
	0, 1, 0, 0, 0, 1, 1, 0, 0, 1, 0,
	1, 1, 1, 0, 0, 1, 0, 1, 1, 0, 0,
}

// ShineDalgarnoMotif is the fixed 6-bit ribosome-binding site pattern.
var ShineDalgarnoMotif = [ShineDalgarnoSize]uint8{0, 1, 1, 0, 1, 1}

// StartCodonBits is the 3-bit pattern of the start codon, checked at offset
// ShineDalgarnoSize+ShineDalgarnoToStart from a gene-start candidate.
var StartCodonBits = [CodonSize]uint8{0, 0, 0}

// StopCodonBits is the 3-bit pattern that terminates protein translation.
var StopCodonBits = [CodonSize]uint8{0, 0, 1}

// Trait ranges the decoder affine-scales normalized codon accumulators into.
const (
	XMin = 0.0
	XMax = 1.0
	WMin = 0.0
	WMax = 0.1
	HMin = -1.0
	HMax = 1.0
	YMin = 0.0
	YMax = 1.0
)

// GaussianBump is one addend of the environment's fixed target curve.
type GaussianBump struct {
	Height float64
	Mean   float64
	Width  float64
}

// TargetBumps are the three fixed Gaussian addends summed to build the
// environment's target phenotype curve.
var TargetBumps = [3]GaussianBump{
	{Height: 1.2, Mean: 0.52, Width: 0.12},
	{Height: -1.4, Mean: 0.5, Width: 0.07},
	{Height: 0.3, Mean: 0.8, Width: 0.03},
}

// PRNG sub-stream purposes.
type Purpose uint8

const (
	PurposeReproduction Purpose = iota
	PurposeMutation
)
