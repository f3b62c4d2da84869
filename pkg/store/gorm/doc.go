// Package gorm implements the store interfaces using GORM.
//
// Each store holds a *gorm.DB and asserts its interface at compile time.
// Driver errors are mapped to the store sentinels in one place (mapError);
// unique violations become ErrDuplicate, missing rows ErrNotFound.
//
// Conditional updates use the versioned UPDATE shape:
//
//	UPDATE ... SET ..., lock_version = lock_version + 1
//	WHERE id = ? AND lock_version = ?
//
// so conflict detection costs nothing beyond the write itself.
package gorm
