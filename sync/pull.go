package sync

import (
	"context"
	"fmt"
	"time"

	"todosync/remote"
	"todosync/store"
)

// remoteIsNewer decides whether a pulled record overwrites the local row.
// Last write wins on updated_at, strictly: equal timestamps keep the local
// row. Timestamps are parsed as full RFC 3339, since PostgREST emits the
// offset form ("+00:00") rather than the "Z" form the store writes. A
// missing or unparseable timestamp on either side yields to the remote
// copy, since the remote is the authoritative store.
func remoteIsNewer(localUpdatedAt, remoteUpdatedAt *string) bool {
	if localUpdatedAt == nil || remoteUpdatedAt == nil {
		return true
	}
	localTime, err := time.Parse(time.RFC3339, *localUpdatedAt)
	if err != nil {
		return true
	}
	remoteTime, err := time.Parse(time.RFC3339, *remoteUpdatedAt)
	if err != nil {
		return true
	}
	return remoteTime.After(localTime)
}

// pull fetches the full remote state and reconciles it into the store,
// parents before children so foreign keys always resolve. Any fetch error
// aborts the phase before anything is applied.
func (c *Coordinator) pull(ctx context.Context, accessToken string) (int, error) {
	remoteCategories, err := c.gateway.FetchCategories(ctx, accessToken)
	if err != nil {
		return 0, err
	}
	remoteTodos, err := c.gateway.FetchTodos(ctx, accessToken)
	if err != nil {
		return 0, err
	}
	remoteLogs, err := c.gateway.FetchCompletionLogs(ctx, accessToken)
	if err != nil {
		return 0, err
	}
	remoteTags, err := c.gateway.FetchTags(ctx, accessToken)
	if err != nil {
		return 0, err
	}
	remoteLinks, err := c.gateway.FetchTodoTags(ctx, accessToken)
	if err != nil {
		return 0, err
	}

	pulled := 0

	n, err := c.applyCategories(remoteCategories)
	if err != nil {
		return pulled, err
	}
	pulled += n

	// Categories may have gained local rows; rebuild the reverse map before
	// translating task references
	categoryBySyncID, err := c.localCategoryIDs()
	if err != nil {
		return pulled, err
	}

	n, err = c.applyTodos(remoteTodos, categoryBySyncID)
	if err != nil {
		return pulled, err
	}
	pulled += n

	taskBySyncID, err := c.localTaskIDs()
	if err != nil {
		return pulled, err
	}

	n, err = c.applyCompletionLogs(remoteLogs, taskBySyncID)
	if err != nil {
		return pulled, err
	}
	pulled += n

	n, err = c.applyTags(remoteTags)
	if err != nil {
		return pulled, err
	}
	pulled += n

	tagBySyncID, err := c.localTagIDs()
	if err != nil {
		return pulled, err
	}

	n, err = c.applyTodoTags(remoteLinks, taskBySyncID, tagBySyncID)
	if err != nil {
		return pulled, err
	}
	pulled += n

	return pulled, nil
}

func (c *Coordinator) localCategoryIDs() (map[string]int64, error) {
	categories, err := c.store.GetAllCategories()
	if err != nil {
		return nil, err
	}
	ids := map[string]int64{}
	for _, cat := range categories {
		if cat.SyncID != nil {
			ids[*cat.SyncID] = cat.ID
		}
	}
	return ids, nil
}

func (c *Coordinator) localTaskIDs() (map[string]int64, error) {
	tasks, err := c.store.GetAllTasks()
	if err != nil {
		return nil, err
	}
	ids := map[string]int64{}
	for _, task := range tasks {
		if task.SyncID != nil {
			ids[*task.SyncID] = task.ID
		}
	}
	return ids, nil
}

func (c *Coordinator) localTagIDs() (map[string]int64, error) {
	tags, err := c.store.GetAllTags()
	if err != nil {
		return nil, err
	}
	ids := map[string]int64{}
	for _, tag := range tags {
		if tag.SyncID != nil {
			ids[*tag.SyncID] = tag.ID
		}
	}
	return ids, nil
}

func (c *Coordinator) applyCategories(remoteCategories []remote.Category) (int, error) {
	applied := 0
	for _, rc := range remoteCategories {
		local, err := c.store.GetCategoryBySyncID(rc.ID)
		if err != nil {
			return applied, err
		}
		if local == nil {
			err = c.store.InsertCategoryFromRemote(store.Category{
				Name:         rc.Name,
				DisplayOrder: rc.DisplayOrder,
				SyncID:       &rc.ID,
				CreatedAt:    rc.CreatedAt,
				UpdatedAt:    rc.UpdatedAt,
			})
			if err != nil {
				return applied, err
			}
			applied++
			continue
		}
		if remoteIsNewer(local.UpdatedAt, rc.UpdatedAt) {
			err = c.store.UpdateCategoryFromRemote(local.ID, store.Category{
				Name:         rc.Name,
				DisplayOrder: rc.DisplayOrder,
				UpdatedAt:    rc.UpdatedAt,
			})
			if err != nil {
				return applied, err
			}
			applied++
		}
	}
	return applied, nil
}

func (c *Coordinator) applyTodos(remoteTodos []remote.Todo, categoryBySyncID map[string]int64) (int, error) {
	applied := 0
	for _, rt := range remoteTodos {

		// A reference to a category this store has never seen degrades to
		// uncategorized rather than failing the pull
		var categoryID *int64
		if rt.CategoryID != nil {
			if localID, ok := categoryBySyncID[*rt.CategoryID]; ok {
				categoryID = &localID
			}
		}

		record := store.Task{
			CategoryID:      categoryID,
			Text:            rt.Text,
			Done:            rt.Done,
			DisplayOrder:    rt.DisplayOrder,
			Memo:            rt.Memo,
			RepeatType:      rt.RepeatType,
			RepeatDetail:    rt.RepeatDetail,
			NextDueAt:       rt.NextDueAt,
			LastCompletedAt: rt.LastCompletedAt,
			TrackStreak:     rt.TrackStreak,
			ReminderAt:      rt.ReminderAt,
			LinkedApp:       rt.LinkedApp,
			SyncID:          &rt.ID,
			CreatedAt:       rt.CreatedAt,
			UpdatedAt:       rt.UpdatedAt,
		}

		local, err := c.store.GetTaskBySyncID(rt.ID)
		if err != nil {
			return applied, err
		}
		if local == nil {
			if err := c.store.InsertTaskFromRemote(record); err != nil {
				return applied, err
			}
			applied++
			continue
		}
		if remoteIsNewer(local.UpdatedAt, rt.UpdatedAt) {
			if err := c.store.UpdateTaskFromRemote(local.ID, record); err != nil {
				return applied, err
			}
			applied++
		}
	}
	return applied, nil
}

// applyCompletionLogs reconciles pulled logs. A log is counted as applied
// only when the stored count actually changes, so repeated pulls of the same
// state stay no-ops.
func (c *Coordinator) applyCompletionLogs(remoteLogs []remote.CompletionLog, taskBySyncID map[string]int64) (int, error) {
	localLogs, err := c.store.GetAllCompletionLogs()
	if err != nil {
		return 0, err
	}
	localCounts := map[string]int64{}
	for _, l := range localLogs {
		localCounts[fmt.Sprintf("%d|%s", l.TaskID, l.CompletedOn)] = l.CompletedCount
	}

	applied := 0
	for _, rl := range remoteLogs {
		taskID, ok := taskBySyncID[rl.TodoID]
		if !ok {
			continue
		}
		if count, seen := localCounts[fmt.Sprintf("%d|%s", taskID, rl.CompletedOn)]; seen && count == rl.CompletedCount {
			continue
		}
		if err := c.store.UpsertCompletionLog(taskID, rl.CompletedOn, rl.CompletedCount); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// applyTags inserts unknown remote tags, except when a local tag already
// carries the same name: that tag adopts the remote id instead, so the two
// copies merge rather than duplicate.
func (c *Coordinator) applyTags(remoteTags []remote.Tag) (int, error) {
	applied := 0
	for _, rt := range remoteTags {
		local, err := c.store.GetTagBySyncID(rt.ID)
		if err != nil {
			return applied, err
		}
		if local != nil {
			if remoteIsNewer(local.UpdatedAt, rt.UpdatedAt) {
				err = c.store.InsertTagFromRemote(store.Tag{
					Name:      rt.Name,
					SyncID:    &rt.ID,
					CreatedAt: rt.CreatedAt,
					UpdatedAt: rt.UpdatedAt,
				})
				if err != nil {
					return applied, err
				}
				applied++
			}
			continue
		}

		byName, err := c.store.GetTagByName(rt.Name)
		if err != nil {
			return applied, err
		}
		if byName != nil {
			// Same name, different or missing remote id. A tag without one
			// adopts the remote id; a tag already mapped elsewhere treats
			// this record as a remote-side duplicate and skips it.
			if byName.SyncID == nil {
				if err := c.store.AdoptTagSyncID(byName.ID, rt.ID); err != nil {
					return applied, err
				}
				applied++
			}
			continue
		}

		err = c.store.InsertTagFromRemote(store.Tag{
			Name:      rt.Name,
			SyncID:    &rt.ID,
			CreatedAt: rt.CreatedAt,
			UpdatedAt: rt.UpdatedAt,
		})
		if err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// applyTodoTags inserts links whose both endpoints resolve locally. Links
// referencing unknown rows are skipped, not failed; a later pass picks them
// up once the endpoints exist.
func (c *Coordinator) applyTodoTags(remoteLinks []remote.TodoTag, taskBySyncID, tagBySyncID map[string]int64) (int, error) {
	applied := 0
	for _, rl := range remoteLinks {
		existing, err := c.store.GetTaskTagBySyncID(rl.ID)
		if err != nil {
			return applied, err
		}
		if existing != nil {
			continue
		}
		taskID, taskOK := taskBySyncID[rl.TodoID]
		tagID, tagOK := tagBySyncID[rl.TagID]
		if !taskOK || !tagOK {
			continue
		}
		if err := c.store.InsertTaskTagFromRemote(taskID, tagID, rl.ID, rl.CreatedAt); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}
