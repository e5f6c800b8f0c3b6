package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/poiesic/searchit"
	"github.com/poiesic/searchit/ai"
)

var sentences = []string{
	"The quarterly report summarizes revenue across all three regions.",
	"A lighthouse keeper logs every ship that passes the headland.",
	"The onboarding guide walks new engineers through the build system.",
	"Migration of the billing database finished two hours ahead of schedule.",
	"The recipe calls for fresh basil, ripe tomatoes and good olive oil.",
	"Solar panels on the south roof now cover half the plant's demand.",
	"The incident review traced the outage to an expired certificate.",
	"A field guide to alpine wildflowers of the eastern ranges.",
	"The warranty covers parts and labor for twenty-four months.",
	"Minutes of the planning meeting held on the first Tuesday of March.",
	"The compression algorithm trades ratio for decode speed.",
	"Visitors must sign in at the north gate before entering the site.",
	"The novel opens with a storm that strands the narrator in a small port town.",
	"Annual maintenance of the turbine requires a full shutdown.",
	"The style guide prefers short sentences and active voice.",
	"A survey of bat populations in disused railway tunnels.",
	"The contract renews automatically unless canceled in writing.",
	"Backups run nightly and are verified every Sunday.",
	"The trail climbs steeply through beech forest before reaching the ridge.",
	"Release notes for the spring update of the mapping service.",
	"The insurance claim must include photographs of the damage.",
	"A beginner's introduction to fermenting vegetables at home.",
	"The telescope schedule allocates dark time by committee review.",
	"Employee travel expenses are reimbursed within thirty days.",
}

var (
	dataDir      = flag.String("data", "./searchit_db", "data directory")
	seedFileName = flag.String("src", "", "file of seed documents, one per line")
	host         = flag.String("host", "http://localhost:11434/v1", "embedding service host")
	model        = flag.String("model", "embeddinggemma", "embedding model")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

func main() {
	ctx := context.Background()

	db, err := searchit.Open(*dataDir, searchit.WithAIConfig(ai.NewConfig(
		ai.WithHost(*host),
		ai.WithEmbeddingModel(*model),
	)))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	source := linesFromSlice(sentences)
	if *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			log.Fatal(err)
		}
	}

	queued := 0
	for line := range source {
		if line == "" {
			continue
		}
		documentID := uuid.NewString()
		if err := db.Queue().Enqueue(ctx, documentID, line, nil); err != nil {
			log.Fatal(err)
		}
		queued++
	}
	slog.Info("queued seed documents", "count", queued)

	worker, err := db.NewWorker()
	if err != nil {
		log.Fatal(err)
	}
	defer worker.Release()

	indexed := 0
	for {
		processed, err := worker.ProcessNext(ctx)
		if err != nil {
			slog.Error("failed to process document", "err", err)
			continue
		}
		if !processed {
			break
		}
		indexed++
	}
	slog.Info("seeding complete", "indexed", indexed)
}
