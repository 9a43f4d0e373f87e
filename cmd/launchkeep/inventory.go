package main

import (
	"launchkeep/internal/config"
	"launchkeep/internal/metrics"
	"launchkeep/internal/reconcile"
	"launchkeep/internal/registry"
	"launchkeep/internal/scan"
)

// folderView is one data folder as shown by `folders list`
type folderView struct {
	scan.FolderInfo
	AppID    string `json:"app_id,omitempty"`
	AppName  string `json:"app_name,omitempty"`
	Orphaned bool   `json:"orphaned"`
}

// inventory is the registry and the data folders on disk at one moment
type inventory struct {
	apps    []registry.App
	folders []scan.FolderInfo
	known   *reconcile.FolderSet
}

func loadInventory(cfg *config.Config, sizes bool) (*inventory, error) {
	reg, err := registry.Load(cfg.AppsFile)
	if err != nil {
		return nil, err
	}
	folders, err := scan.ListFolders(cfg.DataPath, scan.Options{Sizes: sizes})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(folders))
	for i, f := range folders {
		names[i] = f.Name
	}

	return &inventory{
		apps:    reg.Apps(),
		folders: folders,
		known:   reconcile.NewFolderSet(names...),
	}, nil
}

func (inv *inventory) orphans() []string {
	return reconcile.Orphans(reconcile.AppsOf(inv.apps), inv.known)
}

func (inv *inventory) sizes() map[string]int64 {
	sizes := make(map[string]int64, len(inv.folders))
	for _, f := range inv.folders {
		sizes[f.Name] = f.Size
	}
	return sizes
}

// views joins folders with the apps referencing them and updates the
// inventory gauges
func (inv *inventory) views() []folderView {
	owners := make(map[string]registry.App, len(inv.apps))
	for _, app := range inv.apps {
		if name, ok := app.DataFolderName(); ok {
			owners[name] = app
		}
	}

	views := make([]folderView, 0, len(inv.folders))
	var referenced, orphaned int
	var referencedBytes, orphanedBytes int64
	for _, f := range inv.folders {
		v := folderView{FolderInfo: f}
		if app, ok := owners[f.Name]; ok {
			v.AppID = app.ID
			v.AppName = app.Name
			referenced++
			referencedBytes += f.Size
		} else {
			v.Orphaned = true
			orphaned++
			orphanedBytes += f.Size
		}
		views = append(views, v)
	}

	metrics.Init()
	metrics.UpdateFolderInventory(referenced, orphaned, referencedBytes, orphanedBytes)
	return views
}
