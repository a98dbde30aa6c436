package main

import (
	"fmt"
	"sync"

	"shelter-adoptions/internal/router"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var revalidateCmd = &cobra.Command{
	Use:   "revalidate [dogID...]",
	Short: "Recalcula la disponibilidad de perros desde sus solicitudes",
	Long: `Repara perros cuya disponibilidad no coincide con sus solicitudes.
Sin argumentos revisa todos. Usa el mismo lock por perro que el servidor,
así que puede correr con la API levantada.`,
	RunE: runRevalidate,
}

func init() {
	rootCmd.AddCommand(revalidateCmd)
	revalidateCmd.Flags().Int("parallel", 4, "Perros revalidados en paralelo")
}

func runRevalidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	parallel, _ := cmd.Flags().GetInt("parallel")
	if parallel <= 0 {
		parallel = 1
	}

	ctx := cmd.Context()
	backend, err := router.OpenBackend(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer backend.Close()

	svc := router.NewAdoptionsService(router.Options{Config: cfg, Backend: backend, Logger: log})

	ids := args
	if len(ids) == 0 {
		if ids, err = backend.Storage.DogIDs(ctx); err != nil {
			return err
		}
	}

	var (
		mu       sync.Mutex
		repaired int
		failed   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, id := range ids {
		g.Go(func() error {
			res, err := svc.Revalidate(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Un perro inconsistente no frena al resto.
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", id, err)
				return nil
			}
			if res.DogChanged() {
				repaired++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", id, res.Summary.Message)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "checked=%d repaired=%d failed=%d\n", len(ids), repaired, failed)
	if failed > 0 {
		return fmt.Errorf("%d dogs could not be revalidated", failed)
	}
	return nil
}
