package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/viraptor/libremotec/pkg/client"
	"github.com/viraptor/libremotec/pkg/config"
	"github.com/viraptor/libremotec/pkg/stat"
)

// newRouter builds a router whose fatal handler returns, so the command
// reports the FatalError and exits non-zero through main.
func newRouter() (*client.Router, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return config.NewRouter(cfg, func(*client.FatalError) {})
}

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Print a file through the router",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRouter()
		if err != nil {
			return err
		}
		defer func() { _ = r.Disconnect() }()

		fd, err := r.Open(args[0], os.O_RDONLY)
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer func() { _ = r.Close(fd) }()

		buf := make([]byte, 64<<10)
		out := cmd.OutOrStdout()
		for {
			n, err := r.Read(fd, buf)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			if n == 0 {
				return nil
			}
			if _, err := out.Write(buf[:n]); err != nil {
				return err
			}
		}
	},
}

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Show file metadata through the router",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := newRouter()
		if err != nil {
			return err
		}
		defer func() { _ = r.Disconnect() }()

		st, err := r.Lstat(args[0])
		if err != nil {
			return fmt.Errorf("stat %s: %w", args[0], err)
		}

		printStat(cmd.OutOrStdout(), args[0], st)
		return nil
	},
}

func printStat(w io.Writer, path string, st *stat.Stat) {
	fmt.Fprintf(w, "  File: %s\n", path)
	fmt.Fprintf(w, "  Size: %d\tBlocks: %d\tIO Block: %d\n", st.Size, st.Blocks, st.Blksize)
	fmt.Fprintf(w, "Device: %d\tInode: %d\tLinks: %d\n", st.Dev, st.Ino, st.Nlink)
	fmt.Fprintf(w, "Access: %#o\tUid: %d\tGid: %d\n", st.Mode&0o7777, st.Uid, st.Gid)
	fmt.Fprintf(w, "Modify: %s\n", time.Unix(st.Mtime.Sec, st.Mtime.Nsec).Format(time.RFC3339Nano))
}
