package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/vybium/vybium-stark-prover/internal/vybium-stark-prover/logger"
	vybiumstarkprover "github.com/vybium/vybium-stark-prover/pkg/vybium-stark-prover"
)

func main() {
	traceLength := flag.Int("length", 64, "trace length (power of two)")
	numQueries := flag.Uint("queries", 32, "number of verifier queries")
	blowup := flag.Uint("blowup", 4, "low-degree extension blowup factor")
	output := flag.String("out", "", "write the CBOR-encoded proof to this file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		logger.Set(logger.Logger().Level(zerolog.DebugLevel))
	} else {
		logger.Set(logger.Logger().Level(zerolog.InfoLevel))
	}
	log := logger.Logger()

	if *numQueries == 0 || *numQueries > 255 || *blowup == 0 || *blowup > 255 {
		log.Fatal().Msg("queries and blowup must be in 1..255")
	}
	options := vybiumstarkprover.NewProofOptions(uint8(*numQueries), uint8(*blowup))

	prover, err := vybiumstarkprover.NewProver(options)
	if err != nil {
		log.Fatal().Err(err).Msg("creating prover")
	}

	air, err := vybiumstarkprover.NewFibonacciAir(*traceLength, options)
	if err != nil {
		log.Fatal().Err(err).Msg("building AIR")
	}
	trace, err := vybiumstarkprover.NewFibonacciTrace(*traceLength, vybiumstarkprover.One(), vybiumstarkprover.One())
	if err != nil {
		log.Fatal().Err(err).Msg("building trace")
	}

	proof, err := prover.Prove(air, trace)
	if err != nil {
		log.Fatal().Err(err).Msg("proving failed")
	}
	if err := proof.Validate(); err != nil {
		log.Fatal().Err(err).Msg("proof validation failed")
	}

	for i, root := range proof.Commitments {
		fmt.Printf("commitment %d: %s\n", i, hex.EncodeToString(root))
	}

	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Msg("creating output file")
		}
		defer f.Close()
		if err := proof.Serialize(f); err != nil {
			log.Fatal().Err(err).Msg("serializing proof")
		}
		log.Info().Str("path", *output).Msg("proof written")
	}
}
