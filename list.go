package main

import (
	"context"
	"fmt"
	"time"

	"diskmanager/internal/services"

	"github.com/atuleu/go-tablifier"
	"github.com/dustin/go-humanize"
)

type ListCommand struct {
	Timeout time.Duration `long:"timeout" description:"Maximal time to wait for the volume enumeration" default:"10s"`
}

var listCommand = &ListCommand{}

type VolumeTableLine struct {
	Device     string
	Mountpoint string
	Filesystem string `name:"File System"`
	Used       string `name:"Used (GB)"`
	Total      string `name:"Total (GB)"`
	Percent    string `name:"Used (%)"`
}

func (c *ListCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	closer, err := setUpLogger(cfg, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	volumes, err := services.NewSystemVolumes(volumeFilter(cfg.Volumes)).ListVolumes(ctx)
	if err != nil {
		return err
	}

	lines := make([]VolumeTableLine, 0, len(volumes))
	var used, total uint64
	for i, r := range services.FormatRows(volumes) {
		used += volumes[i].UsedBytes
		total += volumes[i].TotalBytes
		lines = append(lines, VolumeTableLine{
			Device:     r.Device,
			Mountpoint: r.Mountpoint,
			Filesystem: r.Filesystem,
			Used:       r.Used,
			Total:      r.Total,
			Percent:    r.Percent,
		})
	}
	if len(lines) == 0 {
		fmt.Println("no volumes found")
		return nil
	}

	tablifier.Tablify(lines)
	fmt.Printf("%d volumes, %s used of %s\n", len(lines), humanize.IBytes(used), humanize.IBytes(total))
	return nil
}

func init() {
	_, err := parser.AddCommand("list", "lists mounted volumes", "Polls mounted volumes once and prints their usage", listCommand)
	if err != nil {
		panic(err.Error())
	}
}
