package schema

const productsMigration = `<?php

use Illuminate\Database\Migrations\Migration;
use Illuminate\Database\Schema\Blueprint;
use Illuminate\Support\Facades\Schema;

return new class extends Migration
{
    public function up(): void
    {
        Schema::create('products', function (Blueprint $table) {
            $table->id();
            $table->string('name');
            $table->decimal('price', 8, 2)->nullable()->default(0);
            $table->foreignId('category_id');
            $table->timestamps();
        });
    }

    public function down(): void
    {
        Schema::dropIfExists('products');
    }
};
`

const ordersMigration = `<?php

return new class extends Migration
{
    public function up(): void
    {
        Schema::create('orders', function (Blueprint $table) {
            $table->id();
            $table->string('reference', 40)->unique();
            $table->unsignedInteger('quantity');
            $table->integer('position')->unsigned()->nullable();
            $table->string('status')->default('draft');
            $table->enum('channel', ['web', 'store'])->default("web");
            $table->timestamp('placed_at')->default(DB::raw('CURRENT_TIMESTAMP'));
            $table->string('customer_email');
            // $table->string('legacy_code');
            /* $table->string('old_notes'); */
            $table->unique('customer_email');
            $table->unsignedBigInteger('user_id')->nullable();
            $table->foreign('user_id')->references('id')->on('users');
            $table->foreignId('parent_id')->constrained()->nullable();
            $table->foreignId('coupon_id')->nullable()->constrained('discount_coupons')->onDelete('cascade');
            $table->boolean('gift')->nullable(false);
            $table->timestamps();
        });
    }
};
`
