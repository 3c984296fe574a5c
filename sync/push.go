package sync

import "context"

// push sends the plan in dependency order so the remote never sees a child
// before its parent: categories, tasks, completion logs, tags, links.
// The first gateway error aborts the phase; rows already confirmed keep
// their synced status and are not retried next pass.
func (c *Coordinator) push(ctx context.Context, accessToken string, plan *pushPlan) (int, error) {
	pushed := 0

	for _, change := range plan.categories {
		if change.deleted {
			if err := c.gateway.DeleteCategory(ctx, accessToken, change.syncID); err != nil {
				return pushed, err
			}
			if err := c.store.DeleteCategory(change.localID); err != nil {
				return pushed, err
			}
		} else {
			if _, err := c.gateway.UpsertCategory(ctx, accessToken, change.record); err != nil {
				return pushed, err
			}
			if change.assign {
				if err := c.store.AssignCategorySyncID(change.localID, change.syncID); err != nil {
					return pushed, err
				}
			}
			if err := c.store.MarkCategorySynced(change.localID); err != nil {
				return pushed, err
			}
		}
		pushed++
	}

	for _, change := range plan.tasks {
		if change.deleted {
			if err := c.gateway.DeleteTodo(ctx, accessToken, change.syncID); err != nil {
				return pushed, err
			}
			if err := c.store.DeleteTask(change.localID); err != nil {
				return pushed, err
			}
		} else {
			if _, err := c.gateway.UpsertTodo(ctx, accessToken, change.record); err != nil {
				return pushed, err
			}
			if change.assign {
				if err := c.store.AssignTaskSyncID(change.localID, change.syncID); err != nil {
					return pushed, err
				}
			}
			if err := c.store.MarkTaskSynced(change.localID); err != nil {
				return pushed, err
			}
		}
		pushed++
	}

	for _, logRecord := range plan.logs {
		if _, err := c.gateway.UpsertCompletionLog(ctx, accessToken, logRecord); err != nil {
			return pushed, err
		}
		pushed++
	}

	for _, change := range plan.tags {
		if change.deleted {
			if err := c.gateway.DeleteTag(ctx, accessToken, change.syncID); err != nil {
				return pushed, err
			}
			if err := c.store.DeleteTag(change.localID); err != nil {
				return pushed, err
			}
		} else {
			if _, err := c.gateway.UpsertTag(ctx, accessToken, change.record); err != nil {
				return pushed, err
			}
			if change.assign {
				if err := c.store.AssignTagSyncID(change.localID, change.syncID); err != nil {
					return pushed, err
				}
			}
			if err := c.store.MarkTagSynced(change.localID); err != nil {
				return pushed, err
			}
		}
		pushed++
	}

	for _, change := range plan.links {
		if change.deleted {
			if err := c.gateway.DeleteTodoTag(ctx, accessToken, change.syncID); err != nil {
				return pushed, err
			}
			if err := c.store.DeleteTaskTag(change.taskID, change.tagID); err != nil {
				return pushed, err
			}
		} else {
			if _, err := c.gateway.UpsertTodoTag(ctx, accessToken, change.record); err != nil {
				return pushed, err
			}
			if change.assign {
				if err := c.store.AssignTaskTagSyncID(change.taskID, change.tagID, change.syncID); err != nil {
					return pushed, err
				}
			}
			if err := c.store.MarkTaskTagSynced(change.taskID, change.tagID); err != nil {
				return pushed, err
			}
		}
		pushed++
	}

	return pushed, nil
}
