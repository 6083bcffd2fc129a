// Command gencsv writes sample participants and gifts CSV files for demos
// and manual testing of the upload pipeline.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	numParticipants = flag.Int("participants", 50, "Number of participant rows")
	numGifts        = flag.Int("gifts", 20, "Number of gift rows")
	outDir          = flag.String("out-dir", "testdata", "Output directory")
	seed            = flag.Int64("seed", 0, "Deterministic seed (0 = random)")
)

var giftPool = map[string][]string{
	"Electrónica": {"Audífonos", "Tablet", "Bocina Bluetooth", "Smartwatch"},
	"Hogar":       {"Cafetera", "Licuadora", "Juego de sartenes", "Aspiradora"},
	"Deportes":    {"Bicicleta", "Balón de fútbol", "Mochila deportiva"},
	"Viajes":      {"Maleta de cabina", "Tarjeta de regalo"},
}

func main() {
	flag.Parse()
	if *seed != 0 {
		gofakeit.Seed(*seed)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir: %v\n", err)
		os.Exit(1)
	}

	participantsPath := filepath.Join(*outDir, "participants.csv")
	if err := os.WriteFile(participantsPath, []byte(participantsCSV(*numParticipants)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write participants: %v\n", err)
		os.Exit(1)
	}

	giftsPath := filepath.Join(*outDir, "gifts.csv")
	if err := os.WriteFile(giftsPath, []byte(giftsCSV(*numGifts)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write gifts: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Participants: %s (%d rows)\n", participantsPath, *numParticipants)
	fmt.Printf("Gifts:        %s (%d rows)\n", giftsPath, *numGifts)
}

func participantsCSV(n int) string {
	var b strings.Builder
	b.WriteString("name,email,employeeNumber\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%s,%s,E%04d\n", gofakeit.Name(), gofakeit.Email(), i+1)
	}
	return b.String()
}

func giftsCSV(n int) string {
	categories := make([]string, 0, len(giftPool))
	for c := range giftPool {
		categories = append(categories, c)
	}

	var b strings.Builder
	b.WriteString("categoria,producto,uds,costo\n")
	for i := 0; i < n; i++ {
		category := categories[gofakeit.Number(0, len(categories)-1)]
		products := giftPool[category]
		product := products[gofakeit.Number(0, len(products)-1)]
		uds := gofakeit.Number(1, 3)
		cost := gofakeit.Price(100, 5000)
		if i%4 == 0 {
			// Currency-formatted with a thousands separator to exercise the
			// tokenizer's recovery path.
			fmt.Fprintf(&b, "%s,%s,%d,\"%s\"\n", category, product, uds, formatThousands(cost))
		} else {
			fmt.Fprintf(&b, "%s,%s,%d,%.2f\n", category, product, uds, cost)
		}
	}
	return b.String()
}

func formatThousands(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]
	if len(intPart) <= 3 {
		return s
	}
	var parts []string
	for len(intPart) > 3 {
		parts = append([]string{intPart[len(intPart)-3:]}, parts...)
		intPart = intPart[:len(intPart)-3]
	}
	parts = append([]string{intPart}, parts...)
	return strings.Join(parts, ",") + frac
}
