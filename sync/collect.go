package sync

import (
	"github.com/google/uuid"

	"todosync/remote"
	"todosync/store"
)

// categoryChange is one pending category ready to push
type categoryChange struct {
	localID int64
	syncID  string
	assign  bool // sync id was generated this pass and must be stored on success
	deleted bool
	record  remote.Category
}

type taskChange struct {
	localID int64
	syncID  string
	assign  bool
	deleted bool
	record  remote.Todo
}

type tagChange struct {
	localID int64
	syncID  string
	assign  bool
	deleted bool
	record  remote.Tag
}

type linkChange struct {
	taskID  int64
	tagID   int64
	syncID  string
	assign  bool
	deleted bool
	record  remote.TodoTag
}

// pushPlan holds everything one push phase will send, in dependency order
type pushPlan struct {
	categories []categoryChange
	tasks      []taskChange
	logs       []remote.CompletionLog
	tags       []tagChange
	links      []linkChange
}

// collect walks the store once and builds the push plan. Sync ids for rows
// that never had one are generated here so child records can reference their
// parents within the same pass. Tombstones that were never pushed have no
// remote counterpart and are dropped locally right away.
func (c *Coordinator) collect() (*pushPlan, error) {
	plan := &pushPlan{}

	// Categories
	pendingCategories, err := c.store.GetPendingCategories()
	if err != nil {
		return nil, err
	}
	for _, cat := range pendingCategories {
		if cat.SyncStatus == store.StatusDeleted && cat.SyncID == nil {
			if err := c.store.DeleteCategory(cat.ID); err != nil {
				return nil, err
			}
			continue
		}
		change := categoryChange{localID: cat.ID, deleted: cat.SyncStatus == store.StatusDeleted}
		if cat.SyncID != nil {
			change.syncID = *cat.SyncID
		} else {
			change.syncID = uuid.NewString()
			change.assign = true
		}
		if !change.deleted {
			change.record = remote.Category{
				ID:           change.syncID,
				UserID:       c.userID,
				Name:         cat.Name,
				DisplayOrder: cat.DisplayOrder,
				CreatedAt:    cat.CreatedAt,
				UpdatedAt:    cat.UpdatedAt,
			}
		}
		plan.categories = append(plan.categories, change)
	}

	// Local category id -> sync id, covering rows already synced and the ids
	// just generated above
	categoryIDs := map[int64]string{}
	allCategories, err := c.store.GetAllCategories()
	if err != nil {
		return nil, err
	}
	for _, cat := range allCategories {
		if cat.SyncID != nil {
			categoryIDs[cat.ID] = *cat.SyncID
		}
	}
	for _, change := range plan.categories {
		categoryIDs[change.localID] = change.syncID
	}

	// Tasks
	pendingTasks, err := c.store.GetPendingTasks()
	if err != nil {
		return nil, err
	}
	for _, task := range pendingTasks {
		if task.SyncStatus == store.StatusDeleted && task.SyncID == nil {
			if err := c.store.DeleteTask(task.ID); err != nil {
				return nil, err
			}
			continue
		}
		change := taskChange{localID: task.ID, deleted: task.SyncStatus == store.StatusDeleted}
		if task.SyncID != nil {
			change.syncID = *task.SyncID
		} else {
			change.syncID = uuid.NewString()
			change.assign = true
		}
		if !change.deleted {
			var remoteCategoryID *string
			if task.CategoryID != nil {
				if sid, ok := categoryIDs[*task.CategoryID]; ok {
					remoteCategoryID = &sid
				}
			}
			change.record = remote.Todo{
				ID:              change.syncID,
				UserID:          c.userID,
				CategoryID:      remoteCategoryID,
				Text:            task.Text,
				Done:            task.Done,
				DisplayOrder:    task.DisplayOrder,
				Memo:            task.Memo,
				RepeatType:      task.RepeatType,
				RepeatDetail:    task.RepeatDetail,
				NextDueAt:       task.NextDueAt,
				LastCompletedAt: task.LastCompletedAt,
				TrackStreak:     task.TrackStreak,
				ReminderAt:      task.ReminderAt,
				LinkedApp:       task.LinkedApp,
				CreatedAt:       task.CreatedAt,
				UpdatedAt:       task.UpdatedAt,
			}
		}
		plan.tasks = append(plan.tasks, change)
	}

	// Local task id -> sync id, including ids generated this pass so
	// completion logs and links for brand-new tasks resolve
	taskIDs := map[int64]string{}
	allTasks, err := c.store.GetAllTasks()
	if err != nil {
		return nil, err
	}
	for _, task := range allTasks {
		if task.SyncID != nil {
			taskIDs[task.ID] = *task.SyncID
		}
	}
	for _, change := range plan.tasks {
		taskIDs[change.localID] = change.syncID
	}

	// Completion logs carry no sync status; every resolvable log is pushed
	// each pass and lands on the same remote row through its derived id
	logs, err := c.store.GetAllCompletionLogs()
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		taskSyncID, ok := taskIDs[l.TaskID]
		if !ok {
			continue
		}
		plan.logs = append(plan.logs, remote.CompletionLog{
			ID:             remote.CompletionLogID(taskSyncID, l.CompletedOn),
			UserID:         c.userID,
			TodoID:         taskSyncID,
			CompletedOn:    l.CompletedOn,
			CompletedCount: l.CompletedCount,
		})
	}

	// Tags
	pendingTags, err := c.store.GetPendingTags()
	if err != nil {
		return nil, err
	}
	for _, tag := range pendingTags {
		if tag.SyncStatus == store.StatusDeleted && tag.SyncID == nil {
			if err := c.store.DeleteTag(tag.ID); err != nil {
				return nil, err
			}
			continue
		}
		change := tagChange{localID: tag.ID, deleted: tag.SyncStatus == store.StatusDeleted}
		if tag.SyncID != nil {
			change.syncID = *tag.SyncID
		} else {
			change.syncID = uuid.NewString()
			change.assign = true
		}
		if !change.deleted {
			change.record = remote.Tag{
				ID:        change.syncID,
				UserID:    c.userID,
				Name:      tag.Name,
				CreatedAt: tag.CreatedAt,
				UpdatedAt: tag.UpdatedAt,
			}
		}
		plan.tags = append(plan.tags, change)
	}

	tagIDs := map[int64]string{}
	allTags, err := c.store.GetAllTags()
	if err != nil {
		return nil, err
	}
	for _, tag := range allTags {
		if tag.SyncID != nil {
			tagIDs[tag.ID] = *tag.SyncID
		}
	}
	for _, change := range plan.tags {
		tagIDs[change.localID] = change.syncID
	}

	// Task-tag links. A link whose task or tag still has no sync id stays
	// pending until a later pass resolves both sides.
	pendingLinks, err := c.store.GetPendingTaskTags()
	if err != nil {
		return nil, err
	}
	for _, link := range pendingLinks {
		if link.SyncStatus == store.StatusDeleted && link.SyncID == nil {
			if err := c.store.DeleteTaskTag(link.TaskID, link.TagID); err != nil {
				return nil, err
			}
			continue
		}
		taskSyncID, taskOK := taskIDs[link.TaskID]
		tagSyncID, tagOK := tagIDs[link.TagID]
		if !taskOK || !tagOK {
			continue
		}
		change := linkChange{taskID: link.TaskID, tagID: link.TagID, deleted: link.SyncStatus == store.StatusDeleted}
		if link.SyncID != nil {
			change.syncID = *link.SyncID
		} else {
			change.syncID = uuid.NewString()
			change.assign = true
		}
		if !change.deleted {
			change.record = remote.TodoTag{
				ID:        change.syncID,
				UserID:    c.userID,
				TodoID:    taskSyncID,
				TagID:     tagSyncID,
				CreatedAt: link.CreatedAt,
			}
		}
		plan.links = append(plan.links, change)
	}

	return plan, nil
}
