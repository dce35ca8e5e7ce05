package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"focusquest/internal/catalog"
	"focusquest/internal/config"
	"focusquest/internal/notify"
	"focusquest/internal/ops"
	"focusquest/internal/progression"
	"focusquest/internal/state"
	"focusquest/internal/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	cat := catalog.Default()
	if path := os.Getenv("FOCUSQUEST_CATALOG"); path != "" {
		cat, err = catalog.Load(path)
		if err != nil {
			log.Fatal(err)
		}
	}

	backend, err := storage.OpenSQLite(filepath.Join(cfg.Storage.DataDir, ops.StateDBName))
	if err != nil {
		log.Fatal(err)
	}
	defer backend.Close()

	store := state.NewStore(backend, cat, cfg.Storage, notify.LogNotifier{})
	st, err := store.Load(ctx)
	if err != nil {
		log.Printf("running on in-memory state: %v", err)
	}

	engine := progression.Engine{Catalog: cat, Formulas: cfg.Formulas}
	boss := engine.CurrentBoss(st.Progression)
	log.Printf("player level %d (%.0f xp, %.2f gold, %d skill points)",
		st.Player.Level, st.Player.Experience, st.Player.Currency, st.Player.SkillPoints)
	log.Printf("fighting %s (%q): %.0f/%.0f resolve, %d bosses down",
		boss.Name, boss.Title, st.Progression.CurrentBossResolve, boss.Resolve,
		len(st.Progression.DefeatedBosses))

	// Settle passive income accrued since the last run.
	prog, earned := engine.CollectPassiveIncome(st.Progression, st.Player.Stats, time.Now())
	if earned > 0 {
		player := st.Player
		player.Currency += earned
		if err := store.Update(ctx, state.Patch{Player: &player, Progression: &prog}); err != nil {
			log.Printf("could not bank passive income: %v", err)
		} else {
			log.Printf("collected %.2f passive gold", earned)
		}
	} else if err := store.Update(ctx, state.Patch{Progression: &prog}); err != nil {
		log.Printf("could not stamp idle collection: %v", err)
	}
}
