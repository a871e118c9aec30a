package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/pagecache"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/cache"
	"github.com/d60-Lab/yatube/pkg/database"
	"github.com/d60-Lab/yatube/pkg/logger"
)

// app holds lazily opened connections; tests pre-populate them.
type app struct {
	cfg *config.Config
	db  *gorm.DB
	rdb *redis.Client
}

func (a *app) init() error {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.cfg = cfg
		if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) database() (*gorm.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := database.InitDB(a.cfg)
	if err != nil {
		return nil, err
	}
	a.db = db
	return db, nil
}

func (a *app) redis(ctx context.Context) (*redis.Client, error) {
	if a.rdb != nil {
		return a.rdb, nil
	}
	rdb, err := cache.NewRedis(ctx, a.cfg.Redis)
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}
	a.rdb = rdb
	return rdb, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "yatubectl",
		Short:         "Administrative tasks for a Yatube deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.AddCommand(
		migrateCmd(a),
		createGroupCmd(a),
		clearCacheCmd(a),
		deleteUserCmd(a),
		deleteGroupCmd(a),
	)
	return root
}

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.database()
			if err != nil {
				return err
			}
			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func createGroupCmd(a *app) *cobra.Command {
	var g model.Group
	cmd := &cobra.Command{
		Use:   "create-group",
		Short: "Create a post group",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.database()
			if err != nil {
				return err
			}
			if err := repository.NewGroupRepository(db).Create(cmd.Context(), &g); err != nil {
				return fmt.Errorf("create group %q: %w", g.Slug, err)
			}
			logger.Info("group created", zap.String("slug", g.Slug), zap.String("id", g.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "created group %s (%s)\n", g.Slug, g.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&g.Title, "title", "", "group title")
	cmd.Flags().StringVar(&g.Slug, "slug", "", "unique URL slug")
	cmd.Flags().StringVar(&g.Description, "description", "", "group description")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("slug")
	return cmd
}

func clearCacheCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Drop every cached home feed page",
		RunE: func(cmd *cobra.Command, args []string) error {
			rdb, err := a.redis(cmd.Context())
			if err != nil {
				return err
			}
			n, err := pagecache.New(rdb, pagecache.HomePrefix, 0).Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached pages\n", n)
			return nil
		},
	}
}

func deleteUserCmd(a *app) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "delete-user",
		Short: "Delete a user with their posts, comments and subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.database()
			if err != nil {
				return err
			}
			users := repository.NewUserRepository(db)
			u, err := users.GetByUsername(cmd.Context(), username)
			if err != nil {
				return fmt.Errorf("user %q: %w", username, err)
			}
			if err := users.Delete(cmd.Context(), u.ID); err != nil {
				return fmt.Errorf("delete user %q: %w", username, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "username to delete")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func deleteGroupCmd(a *app) *cobra.Command {
	var slug string
	cmd := &cobra.Command{
		Use:   "delete-group",
		Short: "Delete a group; its posts stay without a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.database()
			if err != nil {
				return err
			}
			if err := repository.NewGroupRepository(db).DeleteBySlug(cmd.Context(), slug); err != nil {
				return fmt.Errorf("delete group %q: %w", slug, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted group %s\n", slug)
			return nil
		},
	}
	cmd.Flags().StringVar(&slug, "slug", "", "slug of the group to delete")
	_ = cmd.MarkFlagRequired("slug")
	return cmd
}
