/*
Package history keeps a temporal record of every post.

Each write to the posts table appends a row to post_revisions carrying the
post's title, content and status as the write left them. Revisions number
from 1 per post and each row holds a [valid_from, valid_to) interval:
valid_to stays NULL on the current revision and is closed the moment the
next snapshot lands. A point-in-time query walks these intervals; see the
revisions store.

The plugin hooks GORM's create, update and delete callbacks, so snapshots
ride inside the same transaction as the write they record. Unscoped
deletes are purges and leave no snapshot.
*/
package history
