/*
todoctl 任务服务管理工具

	todoctl reset [-config path]                  直接清空配置中的快照（文件或 MySQL），不经过服务
	todoctl [-addr URL] list                      列出任务
	todoctl [-addr URL] add TEXT                  创建任务
	todoctl [-addr URL] update ID TEXT            替换任务文本
	todoctl [-addr URL] delete ID                 删除任务
	todoctl [-addr URL] reset                     通过 admin 接口清空
	todoctl [-addr URL] reload                    通过 admin 接口重新加载快照
	todoctl [-addr URL] watch                     终端中实时查看任务列表
	todoctl [-addr URL] export [-format json|csv|pdf] [-o file]

-addr 缺省时读取 profile（$TODOCTL_PROFILE 或用户配置目录下的 todoctl.toml）。
直接清空快照后，运行中的服务需 reload 或重启才能看到变化。
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"todo/cmd"
	"todo/config"
	"todo/domain/todo"
	"todo/pkg/client"
	"todo/pkg/logger"

	"go.uber.org/zap"
)

var errUsage = errors.New("usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "todoctl: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("todoctl", flag.ContinueOnError)
	fs.SetOutput(out)
	addr := fs.String("addr", "", "Task service base URL, e.g. http://localhost:5000")
	profilePath := fs.String("profile", "", "Path to client profile (TOML)")
	fs.Usage = func() {
		fmt.Fprintln(out, "usage: todoctl [-addr URL] [-profile path] <list|add|update|delete|reset|reload|watch|export> [args]")
		fmt.Fprintln(out, "       todoctl reset [-config path]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	command, rest := fs.Arg(0), fs.Args()[1:]

	// 未指定服务地址时 reset 直接作用于快照存储
	if command == "reset" && *addr == "" {
		return resetLocal(ctx, rest, out)
	}

	explicit := *profilePath != ""
	path := *profilePath
	if !explicit {
		path = defaultProfilePath()
	}
	p, err := loadProfile(path, explicit)
	if err != nil {
		return err
	}
	if *addr != "" {
		p.Addr = *addr
	}
	if p.Addr == "" {
		p.Addr = "http://localhost:5000"
	}

	api := client.New(p.Addr)
	return runRemote(ctx, api, p, command, rest, out)
}

func runRemote(ctx context.Context, api *client.Client, p profile, command string, args []string, out io.Writer) error {
	if command == "watch" {
		return runWatch(ctx, newWatchModel(api, p.Addr, p.WatchInterval.Duration, p.Timeout.Duration))
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout.Duration)
	defer cancel()

	switch command {
	case "list":
		tasks, err := api.List(ctx)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Fprintln(out, "(no tasks)")
			return nil
		}
		writeTasks(out, tasks)
		return nil

	case "add":
		if len(args) == 0 {
			return fmt.Errorf("add: missing task text")
		}
		task, err := api.Create(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created %d: %s\n", task.ID, task.Task)
		return nil

	case "update":
		if len(args) < 2 {
			return fmt.Errorf("update: usage update ID TEXT")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		task, err := api.Update(ctx, id, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "updated %d: %s\n", task.ID, task.Task)
		return nil

	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("delete: usage delete ID")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := api.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "deleted %d\n", id)
		return nil

	case "reset":
		if err := api.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "store reset")
		return nil

	case "export":
		return runExport(ctx, api, args, out)

	case "reload":
		status, err := api.Reload(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "reloaded: %d task(s), last id %d\n", status.TaskCount, status.LastID)
		return nil
	}

	return fmt.Errorf("unknown command %q", command)
}

func runExport(ctx context.Context, api *client.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(out)
	format := fs.String("format", "json", "Export format: json, csv or pdf")
	output := fs.String("o", "", "Output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	tasks, err := api.List(ctx)
	if err != nil {
		return err
	}
	data, err := exportTasks(tasks, *format, time.Now())
	if err != nil {
		return err
	}

	if *output == "" {
		_, err = out.Write(data)
		return err
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(out, "exported %d task(s) to %s\n", len(tasks), *output)
	return nil
}

// resetLocal 不经过服务直接覆盖快照
func resetLocal(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "Path to config file")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Store.Type == config.StoreTypeMemory {
		return fmt.Errorf("store.type %q has no durable snapshot to reset", cfg.Store.Type)
	}
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	repo, db, err := cmd.OpenRepository(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
	}

	if err := repo.Save(ctx, todo.EmptySnapshot()); err != nil {
		return fmt.Errorf("reset snapshot: %w", err)
	}

	logger.Info("Snapshot reset out of band", zap.String("store", cfg.Store.Type))
	fmt.Fprintln(out, "snapshot reset; running servers pick it up on reload or restart")
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return id, nil
}

func writeTasks(w io.Writer, tasks []client.Task) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTASK")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\n", t.ID, t.Task)
	}
	tw.Flush()
}
